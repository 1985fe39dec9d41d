package gfx

import "testing"

func TestBackendListOrder(t *testing.T) {
	var l BackendList[*nullMesh]
	a, b, c := &nullMesh{name: "a"}, &nullMesh{name: "b"}, &nullMesh{name: "c"}
	l.Add(a)
	l.Add(b)
	l.Add(c)
	l.Remove(b)

	items := l.Items()
	if len(items) != 2 || items[0] != a || items[1] != c {
		t.Errorf("Items() = %v, expected [a c]", items)
	}
	if first, ok := l.First(); !ok || first != a {
		t.Errorf("First() = %v, expected a", first)
	}
	if l.Contains(b) {
		t.Errorf("removed backend still listed")
	}
	if drained := l.Drain(); len(drained) != 2 || l.Len() != 0 {
		t.Errorf("Drain() = %v, Len() = %d", drained, l.Len())
	}
	if _, ok := l.First(); ok {
		t.Errorf("First() on an empty list should report false")
	}
}

func TestBackendListMisuse(t *testing.T) {
	tests := []struct {
		name string
		fn   func(l *BackendList[*nullMesh], m *nullMesh)
	}{
		{"add twice", func(l *BackendList[*nullMesh], m *nullMesh) { l.Add(m); l.Add(m) }},
		{"remove missing", func(l *BackendList[*nullMesh], m *nullMesh) { l.Remove(m) }},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected a panic", tt.name)
				}
			}()
			var l BackendList[*nullMesh]
			tt.fn(&l, &nullMesh{name: "m"})
		}()
	}
}

func TestVertexLayout(t *testing.T) {
	if VertexSize != 32 {
		t.Errorf("VertexSize = %d, expected 32", VertexSize)
	}
	if PositionOffset != 0 || ColorOffset != 12 || UVOffset != 24 {
		t.Errorf("offsets %d/%d/%d, expected 0/12/24", PositionOffset, ColorOffset, UVOffset)
	}
	vs := []Vertex{{}, {}}
	if n := len(VertexBytes(vs)); n != 64 {
		t.Errorf("VertexBytes length %d, expected 64", n)
	}
	if n := len(IndexBytes([]uint32{1, 2, 3})); n != 12 {
		t.Errorf("IndexBytes length %d, expected 12", n)
	}
	if VertexBytes(nil) != nil || IndexBytes(nil) != nil {
		t.Errorf("empty input should give nil bytes")
	}
}
