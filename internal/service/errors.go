package service

import "errors"

// MaxTitleLength bounds post titles and comment author names.
const MaxTitleLength = 200

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// InputError carries a message that can be shown next to a form.
// It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Message
}

// Is lets errors.Is(err, ErrInvalidInput) succeed.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(message string) error {
	return &InputError{Message: message}
}
