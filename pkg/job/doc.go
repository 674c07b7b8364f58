// Package job moves hashtag syncing off the request path using River, a
// Postgres-native queue.
//
// A Manager works two job kinds: SyncArgs, which replaces an owner's
// hashtags with those found in a text, and RefreshTrendingArgs, which
// rebuilds the trending cache on a cron schedule. Both are handled by a
// Syncer, normally *hashtags.Service.
//
//	if err := job.Migrate(ctx, pool); err != nil {
//	    return err
//	}
//	m, err := job.NewManager(pool, svc,
//	    job.WithLogger(log),
//	    job.WithTrendingRefresh("*/5 * * * *"),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := m.Start(ctx); err != nil {
//	    return err
//	}
//	defer m.Stop(context.Background())
//
// EnqueueSyncTx inserts the job in the caller's transaction so a post and
// its pending hashtag sync commit together:
//
//	tx, _ := pool.Begin(ctx)
//	// insert post ...
//	_ = m.EnqueueSyncTx(ctx, tx, store.Owner{Type: "post", ID: id}, body)
//	_ = tx.Commit(ctx)
//
// Sync failures caused by invalid input are cancelled rather than retried.
package job
