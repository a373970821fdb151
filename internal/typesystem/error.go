package typesystem

import "fmt"

// InvariantError reports a defect in the checker itself, such as a proxy
// wrapping another proxy. It is raised with panic and never returned.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "type invariant violated: " + e.Msg
}

func invariantViolation(format string, args ...interface{}) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

func mustBeType(t Type, what string) {
	if t == nil {
		invariantViolation("%s is nil", what)
	}
}
