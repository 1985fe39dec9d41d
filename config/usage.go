package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//Usage is a typed property bag. Each property kind lives in its own map so
//callers can layer overrides (flags, files, tests) without parsing strings.
//A Usage may link to a fallback Usage which is consulted when a key is missing.
type Usage struct {
	Name         string
	String_props map[string]string
	Int_props    map[string]int
	Bool_props   map[string]bool
	Float_props  map[string]float32
	Linked_usage *Usage
}

func NewUsage(name string, default_size uint) *Usage {
	var use Usage
	use.Name = name
	use.String_props = make(map[string]string, default_size)
	use.Int_props = make(map[string]int, default_size)
	use.Bool_props = make(map[string]bool, default_size)
	use.Float_props = make(map[string]float32, default_size)
	return &use
}

func (u *Usage) HasNext() bool {
	return u.Linked_usage != nil
}

func (u *Usage) GetLinkedUsage() (*Usage, error) {
	if !u.HasNext() {
		return nil, errors.Errorf("properties %s have no linked usage", u.Name)
	}
	return u.Linked_usage, nil
}

//String looks up a string property, walking linked usages
func (u *Usage) String(key string) (string, bool) {
	for use := u; use != nil; use = use.Linked_usage {
		if v, ok := use.String_props[key]; ok {
			return v, true
		}
	}
	return "", false
}

func (u *Usage) Int(key string) (int, bool) {
	for use := u; use != nil; use = use.Linked_usage {
		if v, ok := use.Int_props[key]; ok {
			return v, true
		}
	}
	return 0, false
}

func (u *Usage) Bool(key string) (bool, bool) {
	for use := u; use != nil; use = use.Linked_usage {
		if v, ok := use.Bool_props[key]; ok {
			return v, true
		}
	}
	return false, false
}

func (u *Usage) Float(key string) (float32, bool) {
	for use := u; use != nil; use = use.Linked_usage {
		if v, ok := use.Float_props[key]; ok {
			return v, true
		}
	}
	return 0, false
}

//Dump renders the usage tree with sorted keys, one property per line
func (u *Usage) Dump() string {
	var sb strings.Builder
	for use := u; use != nil; use = use.Linked_usage {
		fmt.Fprintf(&sb, "[%s]\n", use.Name)
		lines := []string{}
		for k, v := range use.String_props {
			lines = append(lines, fmt.Sprintf("%s = %q", k, v))
		}
		for k, v := range use.Int_props {
			lines = append(lines, fmt.Sprintf("%s = %d", k, v))
		}
		for k, v := range use.Bool_props {
			lines = append(lines, fmt.Sprintf("%s = %t", k, v))
		}
		for k, v := range use.Float_props {
			lines = append(lines, fmt.Sprintf("%s = %g", k, v))
		}
		sort.Strings(lines)
		for _, l := range lines {
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
