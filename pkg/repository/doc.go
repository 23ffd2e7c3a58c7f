// Package repository persists the template collection of an editor.Store.
//
// A Repository stores whole templates keyed by id. Memory keeps them in
// process, the redisstore and pgstore subpackages keep them in Redis and
// PostgreSQL.
//
// Syncer mirrors store events into a repository from a background goroutine
// so that commands never wait on storage I/O:
//
//	syncer := repository.NewSyncer(repo, repository.WithLogger(log))
//	store := editor.New(editor.WithHook(syncer.Hook))
//	if err := repository.Restore(ctx, repo, store); err != nil {
//		return err
//	}
//	go syncer.Run(ctx)
//	defer syncer.Close()
package repository
