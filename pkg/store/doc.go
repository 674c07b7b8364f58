// Package store persists hashtags and their associations with owners.
//
// An owner is any record identified by a type and an ID, so one table of
// associations serves posts, comments and anything else that carries text:
//
//	st := store.NewMemory()
//	tag, _ := st.CreateOrGet(ctx, "Golang")   // stored as "golang"
//	_ = st.Attach(ctx, store.Owner{Type: "post", ID: "1"}, tag.ID)
//
//	trending, _ := st.Trending(ctx, 10)
//	ids, _ := st.Owners(ctx, "post", store.MatchAll, "golang", "testing")
//
// Two implementations are provided. Memory keeps everything in process and is
// meant for tests and single-instance tools. Postgres runs on a pgx pool; its
// schema ships as goose migrations in Migrations:
//
//	if err := db.Migrate(ctx, pool, store.Migrations, db.WithMigrationsDir(store.MigrationsDir)); err != nil {
//	    return err
//	}
//	st := store.NewPostgres(pool)
//
// Names are normalized by NormalizeName on the way in: surrounding whitespace
// and a leading '#' are dropped and the rest is lowercased. Trending and Search
// fall back to DefaultLimit for non-positive limits.
package store
