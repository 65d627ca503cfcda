package domain

import "errors"

var (
	ErrEmptyCatalog    = errors.New("catalog has no offers")
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrInvalidEvent    = errors.New("invalid input event")
)
