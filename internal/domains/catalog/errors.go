package catalog

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidGenre = errors.New("invalid genre")
	ErrInvalidYear  = errors.New("published year out of range")
)
