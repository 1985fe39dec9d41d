//Package resource holds the engine side of disk loaded assets. Every
//resource is named by its source path, shared through reference counted
//handles and owns the GPU backend the active graphics API built for it.
package resource

import (
	"fmt"
	"sort"
)

//Resource is one loaded asset. destroy releases whatever the resource owns,
//the registry calls it exactly once when the last handle goes away.
type Resource interface {
	Name() string
	destroy()
}

type entry[T Resource] struct {
	res      T
	refs     int
	registry *Registry[T]
}

//Registry maps names to live resources of one kind. It never holds two live
//resources under the same name.
type Registry[T Resource] struct {
	kind    string
	entries map[string]*entry[T]
}

func NewRegistry[T Resource](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, entries: make(map[string]*entry[T])}
}

//Obtain returns a handle to the resource registered under name, loading and
//registering it first when it is not live. Nothing is registered when load
//fails.
func (r *Registry[T]) Obtain(name string, load func(name string) (T, error)) (*Handle[T], error) {
	if h, ok := r.Lookup(name); ok {
		return h, nil
	}
	res, err := load(name)
	if err != nil {
		return nil, err
	}
	return r.Register(res), nil
}

//Lookup returns a new handle when name is live
func (r *Registry[T]) Lookup(name string) (*Handle[T], bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	e.refs++
	return &Handle[T]{e: e}, true
}

//Register adds a freshly loaded resource and returns its first handle.
//Registering a name that is already live panics.
func (r *Registry[T]) Register(res T) *Handle[T] {
	name := res.Name()
	if _, dup := r.entries[name]; dup {
		panic(fmt.Sprintf("resource: %s %q registered twice", r.kind, name))
	}
	e := &entry[T]{res: res, refs: 1, registry: r}
	r.entries[name] = e
	return &Handle[T]{e: e}
}

func (r *Registry[T]) unregister(name string) {
	if _, ok := r.entries[name]; !ok {
		panic(fmt.Sprintf("resource: releasing unregistered %s %q", r.kind, name))
	}
	delete(r.entries, name)
}

//Refs reports the live handle count for name, 0 when it is not registered
func (r *Registry[T]) Refs(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.refs
	}
	return 0
}

func (r *Registry[T]) Contains(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *Registry[T]) Len() int {
	return len(r.entries)
}

func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry[T]) Kind() string {
	return r.kind
}

//Handle is one shared reference to a registered resource. Each handle is
//released exactly once, Clone hands out another reference.
type Handle[T Resource] struct {
	e        *entry[T]
	released bool
}

//Get returns the resource, using a released handle panics
func (h *Handle[T]) Get() T {
	h.mustBeLive()
	return h.e.res
}

func (h *Handle[T]) Name() string {
	h.mustBeLive()
	return h.e.res.Name()
}

func (h *Handle[T]) Clone() *Handle[T] {
	h.mustBeLive()
	h.e.refs++
	return &Handle[T]{e: h.e}
}

//Release drops this reference. The last release unregisters the resource and
//destroys it along with its backend.
func (h *Handle[T]) Release() {
	h.mustBeLive()
	h.released = true
	e := h.e
	e.refs--
	if e.refs > 0 {
		return
	}
	e.registry.unregister(e.res.Name())
	e.res.destroy()
}

func (h *Handle[T]) Released() bool {
	return h.released
}

func (h *Handle[T]) mustBeLive() {
	if h == nil || h.e == nil {
		panic("resource: nil handle")
	}
	if h.released {
		panic(fmt.Sprintf("resource: %s %q handle used after release", h.e.registry.kind, h.e.res.Name()))
	}
}
