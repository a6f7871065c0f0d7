package composer

import (
	"errors"
	"fmt"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
)

// ErrInvalidSuggestion is recorded when a suggestion source returns values
// outside the MIDI range or a non-positive duration
var ErrInvalidSuggestion = errors.New("invalid suggestion")

// UnknownGenreError is returned when a session is requested for a genre id
// that the genre table does not contain
type UnknownGenreError struct {
	ID string
}

func (e *UnknownGenreError) Error() string {
	return fmt.Sprintf("unknown genre: %s", e.ID)
}

// Unwrap lets callers match the error with errors.Is(err, genres.ErrGenreNotFound)
func (e *UnknownGenreError) Unwrap() error {
	return genres.ErrGenreNotFound
}
