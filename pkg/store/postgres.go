package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/hashtags/pkg/db"
)

const foreignKeyViolation = "23503"

const hashtagColumns = `h.id, h.name, h.created_at, h.updated_at,
	(SELECT count(*) FROM hashtaggables c WHERE c.hashtag_id = h.id) AS count`

const (
	upsertHashtagQuery = `
WITH h AS (
	INSERT INTO hashtags (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id, name, created_at, updated_at
)
SELECT ` + hashtagColumns + ` FROM h`

	getHashtagQuery = `
SELECT ` + hashtagColumns + ` FROM hashtags h WHERE h.name = $1`

	attachQuery = `
INSERT INTO hashtaggables (hashtag_id, taggable_type, taggable_id)
SELECT id, $2, $3 FROM unnest($1::bigint[]) AS id
ON CONFLICT ON CONSTRAINT hashtaggables_unique DO NOTHING`

	detachQuery = `
DELETE FROM hashtaggables
WHERE taggable_type = $1 AND taggable_id = $2 AND hashtag_id = ANY($3::bigint[])`

	detachAllQuery = `DELETE FROM hashtaggables WHERE taggable_type = $1 AND taggable_id = $2`

	detachOthersQuery = `
DELETE FROM hashtaggables
WHERE taggable_type = $1 AND taggable_id = $2 AND NOT (hashtag_id = ANY($3::bigint[]))`

	ownerHashtagsQuery = `
SELECT ` + hashtagColumns + `
FROM hashtags h
JOIN hashtaggables t ON t.hashtag_id = h.id
WHERE t.taggable_type = $1 AND t.taggable_id = $2
ORDER BY h.name`

	hasHashtagQuery = `
SELECT EXISTS (
	SELECT 1 FROM hashtaggables t
	JOIN hashtags h ON h.id = t.hashtag_id
	WHERE t.taggable_type = $1 AND t.taggable_id = $2 AND h.name = $3
)`

	trendingQuery = `
SELECT ` + hashtagColumns + `
FROM hashtags h
ORDER BY count DESC, h.name
LIMIT $1`

	searchQuery = `
SELECT ` + hashtagColumns + `
FROM hashtags h
WHERE h.name LIKE '%' || $1 || '%' ESCAPE '\'
ORDER BY h.name
LIMIT $2`

	ownersAnyQuery = `
SELECT DISTINCT t.taggable_id
FROM hashtaggables t
JOIN hashtags h ON h.id = t.hashtag_id
WHERE t.taggable_type = $1 AND h.name = ANY($2::text[])
ORDER BY t.taggable_id`

	ownersAllQuery = `
SELECT t.taggable_id
FROM hashtaggables t
JOIN hashtags h ON h.id = t.hashtag_id
WHERE t.taggable_type = $1 AND h.name = ANY($2::text[])
GROUP BY t.taggable_id
HAVING count(DISTINCT h.name) = $3
ORDER BY t.taggable_id`
)

// Postgres is a Store backed by the schema in Migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres returns a Postgres store using pool. Apply Migrations first.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) CreateOrGet(ctx context.Context, name string) (Hashtag, error) {
	name = NormalizeName(name)
	if name == "" {
		return Hashtag{}, ErrEmptyName
	}

	rows, err := p.pool.Query(ctx, upsertHashtagQuery, name)
	if err != nil {
		return Hashtag{}, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Hashtag])
}

func (p *Postgres) Get(ctx context.Context, name string) (Hashtag, error) {
	name = NormalizeName(name)
	if name == "" {
		return Hashtag{}, ErrEmptyName
	}

	rows, err := p.pool.Query(ctx, getHashtagQuery, name)
	if err != nil {
		return Hashtag{}, err
	}
	h, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Hashtag])
	if errors.Is(err, pgx.ErrNoRows) {
		return Hashtag{}, ErrNotFound
	}
	return h, err
}

func (p *Postgres) Attach(ctx context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := p.pool.Exec(ctx, attachQuery, ids, owner.Type, owner.ID)
	return mapError(err)
}

func (p *Postgres) Detach(ctx context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := p.pool.Exec(ctx, detachQuery, owner.Type, owner.ID, ids)
	return err
}

func (p *Postgres) DetachAll(ctx context.Context, owner Owner) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}
	_, err := p.pool.Exec(ctx, detachAllQuery, owner.Type, owner.ID)
	return err
}

func (p *Postgres) Sync(ctx context.Context, owner Owner, ids ...int64) error {
	if !owner.Valid() {
		return ErrInvalidOwner
	}
	if ids == nil {
		ids = []int64{}
	}

	return db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, detachOthersQuery, owner.Type, owner.ID, ids); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, attachQuery, ids, owner.Type, owner.ID)
		return mapError(err)
	})
}

func (p *Postgres) Hashtags(ctx context.Context, owner Owner) ([]Hashtag, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}
	rows, err := p.pool.Query(ctx, ownerHashtagsQuery, owner.Type, owner.ID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Hashtag])
}

func (p *Postgres) HasHashtag(ctx context.Context, owner Owner, name string) (bool, error) {
	if !owner.Valid() {
		return false, ErrInvalidOwner
	}
	var ok bool
	err := p.pool.QueryRow(ctx, hasHashtagQuery, owner.Type, owner.ID, NormalizeName(name)).Scan(&ok)
	return ok, err
}

func (p *Postgres) Trending(ctx context.Context, limit int) ([]Hashtag, error) {
	rows, err := p.pool.Query(ctx, trendingQuery, limitOrDefault(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Hashtag])
}

func (p *Postgres) Search(ctx context.Context, query string, limit int) ([]Hashtag, error) {
	rows, err := p.pool.Query(ctx, searchQuery, escapeLike(NormalizeName(query)), limitOrDefault(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Hashtag])
}

func (p *Postgres) Owners(ctx context.Context, ownerType string, match Match, names ...string) ([]string, error) {
	if ownerType == "" {
		return nil, ErrInvalidOwner
	}
	names = normalizeNames(names)
	if len(names) == 0 {
		return []string{}, nil
	}

	var (
		rows pgx.Rows
		err  error
	)
	if match == MatchAll {
		rows, err = p.pool.Query(ctx, ownersAllQuery, ownerType, names, len(names))
	} else {
		rows, err = p.pool.Query(ctx, ownersAnyQuery, ownerType, names)
	}
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
