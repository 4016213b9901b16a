package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"spacjobs/jobfeedworker/logger"
	"spacjobs/jobfeedworker/pkg/errors"
)

// Write serializes the snapshot to path atomically: the document is
// marshalled first, written to a temp file in the target directory, then
// renamed over the destination. Any failure leaves the previous file
// untouched.
func Write(snap *Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewWrite(path, "failed to serialize snapshot", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewWrite(path, "failed to create output directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".jobs-*.json")
	if err != nil {
		return errors.NewWrite(path, "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewWrite(path, "failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewWrite(path, "failed to close temp file", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.NewWrite(path, "failed to set temp file mode", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewWrite(path, "failed to replace snapshot", err)
	}

	logger.ForSnapshot().Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Int("jobs", snap.JobCount).
		Msg("Snapshot replaced")
	return nil
}
