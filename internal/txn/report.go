package txn

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Report summarizes a Commit (or a Show-mode dry run): the actions in
// commit order and any conflicts found against them.
type Report struct {
	Actions   []Action
	Conflicts []Conflict
}

// String renders a human-readable plan, one line per action, sized with
// go-humanize the way a reviewer skimming a large tangle run expects
// ("12 kB" rather than "11834 bytes").
func (r *Report) String() string {
	var b strings.Builder
	for _, a := range r.Actions {
		switch a.Kind {
		case Create:
			fmt.Fprintf(&b, "create %s (%s)\n", a.Target, humanize.Bytes(uint64(len(a.Content))))
		case Write:
			fmt.Fprintf(&b, "write  %s (%s)\n", a.Target, humanize.Bytes(uint64(len(a.Content))))
		case Delete:
			fmt.Fprintf(&b, "delete %s\n", a.Target)
		}
	}
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "conflict: %s: %s\n", c.Target, c.Reason)
	}
	return b.String()
}

// HasConflicts reports whether any staged action conflicted with disk.
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
