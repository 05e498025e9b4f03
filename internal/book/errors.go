package book

import "errors"

var (
	// ErrBookNotFound is returned when a book cannot be found by title and author.
	ErrBookNotFound = errors.New("book not found")

	// ErrEmptyQuery is returned when a lookup is attempted without a title.
	ErrEmptyQuery = errors.New("empty title query")

	// ErrAPIUnavailable is returned when the external API is unavailable.
	ErrAPIUnavailable = errors.New("API unavailable")
)
