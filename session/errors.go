package session

import "fmt"

// BindError wraps a failure to bind the share listener. The start call that
// hit it changes no state and leaves nothing running.
type BindError struct {
	Err error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind share listener: %v", e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }
