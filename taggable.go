package hashtags

import (
	"context"

	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Taggable is a record whose text carries hashtags.
type Taggable interface {
	// TaggableType names the kind of record, e.g. "post".
	TaggableType() string
	TaggableID() string
	// TaggableText returns the text hashtags are extracted from.
	TaggableText() string
}

// Tagger manages the hashtags of one record.
type Tagger interface {
	Attach(ctx context.Context) error
	DetachAll(ctx context.Context) error
	Sync(ctx context.Context) error
	HasHashtag(ctx context.Context, name string) (bool, error)
	Names(ctx context.Context) ([]string, error)
	DisplayNames(ctx context.Context) ([]string, error)
}

// Tags binds a Taggable to a Service.
type Tags struct {
	svc *Service
	t   Taggable
}

var _ Tagger = Tags{}

// For returns the hashtag operations of t.
//
//	if err := svc.For(post).Sync(ctx); err != nil {
//	    return err
//	}
func (s *Service) For(t Taggable) Tags {
	return Tags{svc: s, t: t}
}

// Owner returns the store owner of the record.
func (tg Tags) Owner() store.Owner {
	return ownerOf(tg.t)
}

// Attach adds the hashtags of the record's text, keeping existing ones.
func (tg Tags) Attach(ctx context.Context) error {
	return tg.svc.Attach(ctx, tg.Owner(), tg.t.TaggableText())
}

func (tg Tags) DetachAll(ctx context.Context) error {
	return tg.svc.DetachAll(ctx, tg.Owner())
}

// Sync replaces the record's hashtags with those in its text.
func (tg Tags) Sync(ctx context.Context) error {
	return tg.svc.Sync(ctx, tg.Owner(), tg.t.TaggableText())
}

func (tg Tags) HasHashtag(ctx context.Context, name string) (bool, error) {
	return tg.svc.HasHashtag(ctx, tg.Owner(), name)
}

func (tg Tags) Names(ctx context.Context) ([]string, error) {
	return tg.svc.HashtagNames(ctx, tg.Owner())
}

func (tg Tags) DisplayNames(ctx context.Context) ([]string, error) {
	return tg.svc.DisplayNames(ctx, tg.Owner())
}

func ownerOf(t Taggable) store.Owner {
	return store.Owner{Type: t.TaggableType(), ID: t.TaggableID()}
}
