package hashtags

import (
	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Errors from the underlying packages, re-exported for callers that only import hashtags.
var (
	ErrInvalidPattern = hashtag.ErrInvalidPattern
	ErrMatchTimeout   = hashtag.ErrMatchTimeout
	ErrInvalidOwner   = store.ErrInvalidOwner
	ErrNotFound       = store.ErrNotFound
)
