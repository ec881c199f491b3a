package apps

// ArgumentError reports bad input given to a command, as opposed to a failure while running it.
type ArgumentError struct {
	msg string
}

func NewArgumentError(msg string) *ArgumentError {
	return &ArgumentError{msg}
}

func (err *ArgumentError) Error() string {
	return err.msg
}

// IsArgumentError reports whether err is an *ArgumentError.
func IsArgumentError(err error) bool {
	_, ok := err.(*ArgumentError)
	return ok
}
