package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/exportfs"
)

const untypedDir = "untyped"

// buildNotePaths assigns every record a note path relative to the notes
// directory, in record order. Clashing names get -2, -3, ... suffixes.
func buildNotePaths(records []*wordpress.Record, filenameEscaping string) []string {
	paths := make([]string, len(records))
	used := map[string]int{}
	for i, r := range records {
		dir := untypedDir
		if r.PostType != "" {
			dir = sanitizeName(r.PostType, filenameEscaping)
		}
		base := sanitizeName(noteTitle(r), filenameEscaping)
		if base == "" {
			base = "untitled"
		}
		name := base
		for n := 2; used[filenameCollisionKey(dir+"/"+name, filenameEscaping)] > 0; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[filenameCollisionKey(dir+"/"+name, filenameEscaping)]++
		paths[i] = filepath.ToSlash(filepath.Join(dir, name+".md"))
	}
	return paths
}

// exportNotes writes one note per record plus index.json mapping record
// identifiers to note paths.
func exportNotes(notesDir string, records []*wordpress.Record, filenameEscaping string) (int, error) {
	paths := buildNotePaths(records, filenameEscaping)
	index := make(map[string]string, len(records))
	for i, r := range records {
		abs := filepath.Join(notesDir, filepath.FromSlash(paths[i]))
		if err := exportfs.WriteNote(abs, r); err != nil {
			return i, err
		}
		if created, ok := exportfs.ParsePostDate(r.PostDate); ok {
			if err := setFileCreationTime(abs, created); err != nil {
				return i, fmt.Errorf("set creation time %s: %w", r.ID, err)
			}
		}
		if r.ID != "" {
			index[r.ID] = paths[i]
		}
	}
	if err := exportfs.WriteIndex(filepath.Join(notesDir, "index.json"), index); err != nil {
		return len(records), fmt.Errorf("write notes index: %w", err)
	}
	return len(records), nil
}
