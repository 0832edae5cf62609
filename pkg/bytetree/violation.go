package bytetree

import "fmt"

// Violation is the panic value raised when a value graph breaks field discipline or cannot be
// encoded at all. It describes a schema or implementation defect and is never returned as an error.
type Violation struct {
	// Path locates the offending field, such as "root.0.3".
	Path string
	Msg  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("bytetree violation at %s: %s", v.Path, v.Msg)
}

func violate(path, format string, args ...any) {
	panic(&Violation{Path: path, Msg: fmt.Sprintf(format, args...)})
}
