package store

import "errors"

var (
	ErrEmptyName    = errors.New("store: empty hashtag name")
	ErrInvalidOwner = errors.New("store: owner type and id are required")
	ErrNotFound     = errors.New("store: hashtag not found")
)
