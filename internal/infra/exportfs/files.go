package exportfs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// PostDateLayout is the layout of WordPress post_date values.
const PostDateLayout = "2006-01-02 15:04:05"

// WriteFileAtomic writes path through a temp file in the same directory
// and renames it into place, so readers never see a partial file.
func WriteFileAtomic(path string, perm os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}

// ParsePostDate parses a post_date in local time. Empty and zero dates
// ("0000-00-00 00:00:00" in drafts) report false.
func ParsePostDate(postDate string) (time.Time, bool) {
	t, err := time.ParseInLocation(PostDateLayout, postDate, time.Local)
	if err != nil || t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

// ApplyPostDateTimes sets the access and modification times of path to
// postDate. Unparseable dates leave the file untouched.
func ApplyPostDateTimes(path string, postDate string) error {
	t, ok := ParsePostDate(postDate)
	if !ok {
		return nil
	}
	return os.Chtimes(path, t, t)
}

// WriteIndex writes the id to relative path mapping as JSON.
func WriteIndex(path string, notes map[string]string) error {
	payload := struct {
		Notes map[string]string `json:"notes"`
	}{Notes: notes}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}
