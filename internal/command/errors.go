package command

import "fmt"

// userError is an error caused by attempting to interpret input. Either the
// input could not be understood or it asks for something that does not exist.
//
// It carries a message to show to the user as well as a more technical
// description for logs.
type userError struct {
	msg   string
	human string
	wrap  error
}

func (e *userError) Error() string {
	return e.msg
}

func (e *userError) Unwrap() error {
	return e.wrap
}

// Userf returns a new error with a message to show to the user and an
// automatically generated Error() description.
func Userf(format string, a ...interface{}) error {
	human := fmt.Sprintf(format, a...)
	return &userError{
		msg:   fmt.Sprintf("got user error(%q)", human),
		human: human,
	}
}

// WrapUserf is like Userf but the returned error wraps e.
func WrapUserf(e error, format string, a ...interface{}) error {
	err := Userf(format, a...).(*userError)
	err.wrap = e
	return err
}

// UserMessage gets the message to display to the user for the given error. If
// it was created by Userf or WrapUserf, the message given there is returned.
// Otherwise, err.Error() is returned.
func UserMessage(err error) string {
	if uErr, ok := err.(*userError); ok {
		return uErr.human
	}
	return err.Error()
}
