// Package filedb implements the persistent per-file digest/mtime store
// described in spec.md §4.6: FileStat, FileDB, and a companion advisory
// file lock (Lock), which the transaction layer does not acquire.
package filedb

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// FileStat pairs a file's modification time with a content-normalized
// digest. Equality of FileStats is equality of digest; ordering is by
// modification time.
type FileStat struct {
	Modified time.Time `json:"modified"`
	Hexdigest string   `json:"hexdigest"`
}

// Equal reports whether two stats have the same digest.
func (s FileStat) Equal(other FileStat) bool {
	return s.Hexdigest == other.Hexdigest
}

// Digest normalizes content the way spec.md §3 requires before hashing:
// strip CR characters, right-strip trailing whitespace/newlines, then
// SHA-256 the UTF-8 bytes. Two files that differ only by CRLF-vs-LF line
// endings or a trailing blank line hash identically.
func Digest(content []byte) string {
	s := strings.ReplaceAll(string(content), "\r", "")
	s = strings.TrimRight(s, " \t\n")
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// StatOf builds a FileStat from content read at modTime.
func StatOf(content []byte, modTime time.Time) FileStat {
	return FileStat{Modified: modTime, Hexdigest: Digest(content)}
}
