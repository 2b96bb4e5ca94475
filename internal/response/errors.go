package response

import "fmt"

// HandlerError wraps a failure, or a recovered panic, from one handler's
// update. The tick continues with the remaining handlers.
type HandlerError struct {
	Handler string
	Wrapped error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("response: handler %s: %v", e.Handler, e.Wrapped)
}

func (e *HandlerError) Unwrap() error {
	return e.Wrapped
}
