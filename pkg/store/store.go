package store

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
)

// DefaultLimit applies to Trending and Search when the caller passes a limit <= 0.
const DefaultLimit = 10

// Hashtag is a persisted, lowercase hashtag.
type Hashtag struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Name      string    `json:"name" db:"name"`
	ID        int64     `json:"id" db:"id"`
	// Count is the number of owners the hashtag is attached to.
	Count int `json:"count" db:"count"`
}

// DisplayName returns the name with its '#' sigil.
func (h Hashtag) DisplayName() string {
	return hashtag.KindHashtag.Sigil() + h.Name
}

// URL returns prefix followed by the name.
func (h Hashtag) URL(prefix string) string {
	return prefix + h.Name
}

// Owner identifies anything hashtags can be attached to, e.g. Owner{Type: "post", ID: "42"}.
type Owner struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Valid reports whether both parts of the owner are set.
func (o Owner) Valid() bool {
	return o.Type != "" && o.ID != ""
}

// Match selects how Owners combines several names.
type Match uint8

const (
	// MatchAny returns owners carrying at least one of the names.
	MatchAny Match = iota
	// MatchAll returns owners carrying every one of the names.
	MatchAll
)

// Store persists hashtags and their associations with owners.
// Names passed in are normalized with NormalizeName before use.
type Store interface {
	// CreateOrGet returns the hashtag with the given name, creating it when missing.
	CreateOrGet(ctx context.Context, name string) (Hashtag, error)
	// Get returns the hashtag with the given name or ErrNotFound.
	Get(ctx context.Context, name string) (Hashtag, error)
	// Attach adds associations, keeping the existing ones. Duplicates are ignored.
	Attach(ctx context.Context, owner Owner, ids ...int64) error
	Detach(ctx context.Context, owner Owner, ids ...int64) error
	DetachAll(ctx context.Context, owner Owner) error
	// Sync makes the owner's association set exactly ids.
	Sync(ctx context.Context, owner Owner, ids ...int64) error
	// Hashtags returns the owner's hashtags ordered by name.
	Hashtags(ctx context.Context, owner Owner) ([]Hashtag, error)
	HasHashtag(ctx context.Context, owner Owner, name string) (bool, error)
	// Trending returns hashtags ordered by association count, most used first, then by name.
	Trending(ctx context.Context, limit int) ([]Hashtag, error)
	// Search returns hashtags whose name contains query, ordered by name.
	Search(ctx context.Context, query string, limit int) ([]Hashtag, error)
	// Owners returns the sorted IDs of owners of ownerType carrying the names.
	Owners(ctx context.Context, ownerType string, match Match, names ...string) ([]string, error)
}

// NormalizeName trims whitespace and a leading '#' and lowercases the rest.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, hashtag.KindHashtag.Sigil())
	return hashtag.Normalize(name).String()
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = NormalizeName(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
