// Package transfer manages the temporary files used to pass structured
// payloads to the engine out-of-band. Inlining arbitrary XML into a
// command string is an escaping minefield (quotes, ampersands, newlines,
// embedded delimiters); writing it to a file and having the engine read
// the file sidesteps all of it.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

const (
	prefix    = "maestro-payload-"
	extension = ".xml"
)

// seq disambiguates files acquired within the same millisecond, so
// concurrent calls never collide on a name.
var seq atomic.Uint64

// Acquire writes content to a freshly named file under the platform temp
// directory and returns its path. Content must already be a complete
// document (see plist.Wrap); it is written as UTF-8. The caller must
// Release the path once the command referencing it has completed,
// success or failure alike.
func Acquire(content string) (string, error) {
	name := fmt.Sprintf("%s%d-%d%s", prefix, time.Now().UnixMilli(), seq.Add(1), extension)
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("writing transfer file: %w", err)
	}
	return path, nil
}

// Release deletes the transfer file. Cleanup is best-effort: a missing
// file or a deletion failure is not an operation failure, so any error
// is swallowed. A leaked temp file never affects correctness.
func Release(path string) {
	_ = os.Remove(path)
}
