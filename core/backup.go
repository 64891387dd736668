package core

import (
	"time"

	"zombiezen.com/go/sqlite"

	"github.com/shrek82/jlite/handle"
)

// backupPolicy finishes online backups.
type backupPolicy struct{}

func (backupPolicy) Invalid() *sqlite.Backup { return nil }

func (backupPolicy) Close(b *sqlite.Backup) error { return b.Close() }

// SaveToDisk copies the main database of c into the database file at path,
// replacing its contents. It is the usual way to persist an in-memory
// database. The copy is taken in a single pass; a source that is locked by
// another session fails with SQLITE_BUSY rather than being retried.
func (c *Connection) SaveToDisk(path string) error {
	if !c.Valid() {
		return ErrConnectionClosed
	}
	start := time.Now()

	opts := c.opts
	opts.JournalMode = ""
	dst, err := Open(path, &opts)
	if err != nil {
		return err
	}
	defer dst.Close()

	b, err := sqlite.NewBackup(dst.Handle(), "main", c.Handle(), "main")
	if err != nil {
		return engineError(err)
	}
	h := handle.New(backupPolicy{}, b)
	defer h.Close()

	more, err := h.Get().Step(-1)
	if err != nil {
		return engineError(err)
	}
	if more {
		return newEngineError(sqlite.ResultBusy)
	}
	if err := h.Detach().Close(); err != nil {
		return engineError(err)
	}
	c.log().Info("saved %s to %s in %v", c.target, path, time.Since(start))
	return nil
}
