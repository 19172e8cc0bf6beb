package txn

import (
	"time"

	"github.com/entangled/entangled-go/internal/filedb"
)

// Rebuild reconstructs a fresh FileDB purely from a set of already-planned
// actions, touching neither disk nor an existing database. ResetDB mode
// uses this to recover from a `.entangled/filedb.json` that has drifted
// from reality: rather than patch the old DB entry by entry, it discards it
// and rebuilds one from what this run actually produced. Modification
// times are left zero-valued, the same way a reset never trusts stale
// timestamps; Commit refreshes them for any path also passed to MarkRead.
func Rebuild(actions []Action) *filedb.FileDB {
	db := filedb.New()
	for _, a := range actions {
		switch a.Kind {
		case Create, Write:
			db.Update(a.Target, filedb.StatOf(a.Content, time.Time{}))
			if a.IsTarget {
				db.MarkTarget(a.Target)
			}
		case Delete:
			db.Delete(a.Target)
		}
	}
	return db
}
