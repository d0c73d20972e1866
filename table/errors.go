package table

import "fmt"

// Error is a structured error returned by Store operations.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Message)
}

var (
	// ErrOutOfRange is returned when a card or deck index is not within
	// the current bounds of its list.
	ErrOutOfRange error = &Error{
		Code:    "OutOfRange",
		Message: "index is out of range",
	}

	// ErrEmptyDeck is returned when drawing from a deck with no cards left.
	ErrEmptyDeck error = &Error{
		Code:    "EmptyDeck",
		Message: "deck has no cards left",
	}
)
