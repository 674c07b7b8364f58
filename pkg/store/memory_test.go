package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hashtags/pkg/store"
)

var (
	post1 = store.Owner{Type: "post", ID: "1"}
	post2 = store.Owner{Type: "post", ID: "2"}
	user1 = store.Owner{Type: "user", ID: "1"}
)

func names(hs []store.Hashtag) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Name
	}
	return out
}

func create(t *testing.T, st store.Store, name string) store.Hashtag {
	t.Helper()
	h, err := st.CreateOrGet(context.Background(), name)
	require.NoError(t, err)
	return h
}

func TestMemory_CreateOrGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()

	first, err := st.CreateOrGet(ctx, "Golang")
	require.NoError(t, err)
	assert.Equal(t, "golang", first.Name)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	again, err := st.CreateOrGet(ctx, " #GOLANG ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other := create(t, st, "rust")
	assert.NotEqual(t, first.ID, other.ID)

	_, err = st.CreateOrGet(ctx, "  ")
	require.ErrorIs(t, err, store.ErrEmptyName)
	_, err = st.CreateOrGet(ctx, "#")
	require.ErrorIs(t, err, store.ErrEmptyName)
}

func TestMemory_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	h := create(t, st, "go")
	require.NoError(t, st.Attach(ctx, post1, h.ID))

	got, err := st.Get(ctx, "#Go")
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, 1, got.Count)

	_, err = st.Get(ctx, "rust")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Get(ctx, "")
	require.ErrorIs(t, err, store.ErrEmptyName)
}

func TestMemory_AttachDetach(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	goTag := create(t, st, "go")
	dbTag := create(t, st, "db")
	webTag := create(t, st, "web")

	require.NoError(t, st.Attach(ctx, post1, goTag.ID, dbTag.ID))
	require.NoError(t, st.Attach(ctx, post1, goTag.ID, webTag.ID))

	hs, err := st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Equal(t, []string{"db", "go", "web"}, names(hs))

	require.NoError(t, st.Detach(ctx, post1, dbTag.ID))
	hs, err = st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, names(hs))

	require.NoError(t, st.DetachAll(ctx, post1))
	hs, err = st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Empty(t, hs)

	require.ErrorIs(t, st.Attach(ctx, post1, 999), store.ErrNotFound)
	require.ErrorIs(t, st.Attach(ctx, store.Owner{Type: "post"}, goTag.ID), store.ErrInvalidOwner)
	require.ErrorIs(t, st.DetachAll(ctx, store.Owner{ID: "1"}), store.ErrInvalidOwner)
}

func TestMemory_Sync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	a := create(t, st, "a")
	b := create(t, st, "b")
	c := create(t, st, "c")

	require.NoError(t, st.Attach(ctx, post1, a.ID, b.ID))
	require.NoError(t, st.Sync(ctx, post1, b.ID, c.ID))

	hs, err := st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(hs))

	require.NoError(t, st.Sync(ctx, post1))
	hs, err = st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Empty(t, hs)

	// Unknown IDs leave the association set untouched.
	require.NoError(t, st.Sync(ctx, post1, a.ID))
	require.ErrorIs(t, st.Sync(ctx, post1, b.ID, 42), store.ErrNotFound)
	hs, err = st.Hashtags(ctx, post1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(hs))
}

func TestMemory_HasHashtag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	goTag := create(t, st, "go")
	require.NoError(t, st.Attach(ctx, post1, goTag.ID))

	for _, name := range []string{"go", "GO", "#Go"} {
		ok, err := st.HasHashtag(ctx, post1, name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	ok, err := st.HasHashtag(ctx, post2, "go")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.HasHashtag(ctx, post1, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Trending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	goTag := create(t, st, "go")
	dbTag := create(t, st, "db")
	create(t, st, "unused")
	apiTag := create(t, st, "api")

	require.NoError(t, st.Attach(ctx, post1, goTag.ID, dbTag.ID, apiTag.ID))
	require.NoError(t, st.Attach(ctx, post2, goTag.ID, dbTag.ID))
	require.NoError(t, st.Attach(ctx, user1, goTag.ID))

	hs, err := st.Trending(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "db", "api", "unused"}, names(hs))
	assert.Equal(t, 3, hs[0].Count)
	assert.Equal(t, 2, hs[1].Count)
	assert.Equal(t, 1, hs[2].Count)
	assert.Equal(t, 0, hs[3].Count)

	hs, err = st.Trending(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "db"}, names(hs))

	require.NoError(t, st.DetachAll(ctx, post1))
	hs, err = st.Trending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, 2, hs[0].Count)
}

func TestMemory_TrendingDefaultLimit(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	for i := range 15 {
		create(t, st, fmt.Sprintf("tag%02d", i))
	}

	hs, err := st.Trending(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, hs, store.DefaultLimit)
}

func TestMemory_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	for _, n := range []string{"golang", "go", "mongodb", "rust", "go_tips"} {
		create(t, st, n)
	}

	hs, err := st.Search(ctx, "GO", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "go_tips", "golang", "mongodb"}, names(hs))

	hs, err = st.Search(ctx, "go", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "go_tips"}, names(hs))

	hs, err = st.Search(ctx, "o_t", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"go_tips"}, names(hs))

	hs, err = st.Search(ctx, "%", 0)
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestMemory_Owners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	goTag := create(t, st, "go")
	dbTag := create(t, st, "db")

	require.NoError(t, st.Attach(ctx, post1, goTag.ID, dbTag.ID))
	require.NoError(t, st.Attach(ctx, post2, goTag.ID))
	require.NoError(t, st.Attach(ctx, user1, dbTag.ID))

	tests := []struct {
		name     string
		match    store.Match
		names    []string
		expected []string
	}{
		{"single name", store.MatchAny, []string{"go"}, []string{"1", "2"}},
		{"any", store.MatchAny, []string{"#DB", "go"}, []string{"1", "2"}},
		{"all", store.MatchAll, []string{"go", "db"}, []string{"1"}},
		{"all with duplicates", store.MatchAll, []string{"go", "GO"}, []string{"1", "2"}},
		{"all with unknown", store.MatchAll, []string{"go", "missing"}, []string{}},
		{"no names", store.MatchAny, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ids, err := st.Owners(ctx, "post", tt.match, tt.names...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}

	_, err := st.Owners(ctx, "", store.MatchAny, "go")
	require.ErrorIs(t, err, store.ErrInvalidOwner)
}

func TestMemory_ConcurrentAttach(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	tag := create(t, st, "go")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			owner := store.Owner{Type: "post", ID: fmt.Sprint(i % 10)}
			assert.NoError(t, st.Attach(ctx, owner, tag.ID))
		})
	}
	wg.Wait()

	hs, err := st.Trending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, 10, hs[0].Count)
}

func TestHashtag_DisplayNameAndURL(t *testing.T) {
	t.Parallel()

	h := store.Hashtag{Name: "golang"}
	assert.Equal(t, "#golang", h.DisplayName())
	assert.Equal(t, "/tags/golang", h.URL("/tags/"))
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "golang", store.NormalizeName("  #GoLang "))
	assert.Equal(t, "straße", store.NormalizeName("STRAßE"))
	assert.Empty(t, store.NormalizeName(" # "))
}
