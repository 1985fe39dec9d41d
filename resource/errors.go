package resource

import "fmt"

//LoadError reports a resource whose source could not be read or parsed.
//Name is the offending file.
type LoadError struct {
	Kind string
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

//Cause lets github.com/pkg/errors walk through a LoadError
func (e *LoadError) Cause() error { return e.Err }
