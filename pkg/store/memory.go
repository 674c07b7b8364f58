package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store guarded by a mutex.
// Suitable for tests and single-process deployments.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	tags   map[int64]*Hashtag
	byName map[string]int64
	links  map[Owner]map[int64]struct{}
	now    func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		tags:   make(map[int64]*Hashtag),
		byName: make(map[string]int64),
		links:  make(map[Owner]map[int64]struct{}),
		now:    time.Now,
	}
}

func (m *Memory) CreateOrGet(_ context.Context, name string) (Hashtag, error) {
	name = NormalizeName(name)
	if name == "" {
		return Hashtag{}, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byName[name]; ok {
		return *m.tags[id], nil
	}

	m.nextID++
	now := m.now().UTC()
	h := &Hashtag{ID: m.nextID, Name: name, CreatedAt: now, UpdatedAt: now}
	m.tags[h.ID] = h
	m.byName[name] = h.ID
	return *h, nil
}

func (m *Memory) Get(_ context.Context, name string) (Hashtag, error) {
	name = NormalizeName(name)
	if name == "" {
		return Hashtag{}, ErrEmptyName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return Hashtag{}, ErrNotFound
	}
	return *m.tags[id], nil
}

func (m *Memory) Attach(_ context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkIDs(ids); err != nil {
		return err
	}
	m.attach(owner, ids)
	return nil
}

func (m *Memory) Detach(_ context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.links[owner]
	for _, id := range ids {
		if _, ok := set[id]; ok {
			delete(set, id)
			m.tags[id].Count--
		}
	}
	if len(set) == 0 {
		delete(m.links, owner)
	}
	return nil
}

func (m *Memory) DetachAll(_ context.Context, owner Owner) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.detachAll(owner)
	return nil
}

func (m *Memory) Sync(_ context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkIDs(ids); err != nil {
		return err
	}
	m.detachAll(owner)
	m.attach(owner, ids)
	return nil
}

func (m *Memory) Hashtags(_ context.Context, owner Owner) ([]Hashtag, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Hashtag, 0, len(m.links[owner]))
	for id := range m.links[owner] {
		out = append(out, *m.tags[id])
	}
	slices.SortFunc(out, byName)
	return out, nil
}

func (m *Memory) HasHashtag(_ context.Context, owner Owner, name string) (bool, error) {
	if !owner.Valid() {
		return false, ErrInvalidOwner
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[NormalizeName(name)]
	if !ok {
		return false, nil
	}
	_, ok = m.links[owner][id]
	return ok, nil
}

func (m *Memory) Trending(_ context.Context, limit int) ([]Hashtag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.all(func(*Hashtag) bool { return true })
	slices.SortFunc(out, func(a, b Hashtag) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return byName(a, b)
	})
	return truncate(out, limit), nil
}

func (m *Memory) Search(_ context.Context, query string, limit int) ([]Hashtag, error) {
	query = NormalizeName(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.all(func(h *Hashtag) bool { return strings.Contains(h.Name, query) })
	slices.SortFunc(out, byName)
	return truncate(out, limit), nil
}

func (m *Memory) Owners(_ context.Context, ownerType string, match Match, names ...string) ([]string, error) {
	if ownerType == "" {
		return nil, ErrInvalidOwner
	}
	names = normalizeNames(names)
	out := []string{}
	if len(names) == 0 {
		return out, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for owner, set := range m.links {
		if owner.Type != ownerType {
			continue
		}
		hits := 0
		for _, n := range names {
			if id, ok := m.byName[n]; ok {
				if _, ok := set[id]; ok {
					hits++
				}
			}
		}
		if (match == MatchAll && hits == len(names)) || (match == MatchAny && hits > 0) {
			out = append(out, owner.ID)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (m *Memory) checkIDs(ids []int64) error {
	for _, id := range ids {
		if _, ok := m.tags[id]; !ok {
			return ErrNotFound
		}
	}
	return nil
}

func (m *Memory) attach(owner Owner, ids []int64) {
	if len(ids) == 0 {
		return
	}
	set, ok := m.links[owner]
	if !ok {
		set = make(map[int64]struct{}, len(ids))
		m.links[owner] = set
	}
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		m.tags[id].Count++
	}
}

func (m *Memory) detachAll(owner Owner) {
	for id := range m.links[owner] {
		m.tags[id].Count--
	}
	delete(m.links, owner)
}

func (m *Memory) all(keep func(*Hashtag) bool) []Hashtag {
	out := make([]Hashtag, 0, len(m.tags))
	for _, h := range m.tags {
		if keep(h) {
			out = append(out, *h)
		}
	}
	return out
}

func byName(a, b Hashtag) int {
	return strings.Compare(a.Name, b.Name)
}

func truncate(hs []Hashtag, limit int) []Hashtag {
	limit = limitOrDefault(limit)
	if len(hs) > limit {
		return hs[:limit]
	}
	return hs
}
