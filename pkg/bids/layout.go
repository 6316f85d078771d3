package bids

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// File is a single pipeline output file with its parsed entities.
type File struct {
	Path     string
	Entities map[string]string
}

// HasEntities reports whether the file carries all the given entities.
func (f File) HasEntities(names []string) bool {
	for _, n := range names {
		if _, ok := f.Entities[n]; !ok {
			return false
		}
	}
	return true
}

// MatchesDescriptor reports whether the descriptor is a subset of the
// file's entities.
func (f File) MatchesDescriptor(descriptor map[string]string) bool {
	for k, v := range descriptor {
		if f.Entities[k] != v {
			return false
		}
	}
	return true
}

// Scan walks baseDir and collects files whose extension is in
// extensions, parsing entities from each relative path.
//
// Extensions are matched case-sensitively; a leading dot is optional.
func Scan(baseDir string, extensions []string, c *Config) ([]File, error) {
	suffixes := make([]string, len(extensions))
	for i, ext := range extensions {
		suffixes[i] = "." + strings.TrimPrefix(ext, ".")
	}

	files := []File{}
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matched := false
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		files = append(files, File{
			Path:     path,
			Entities: c.ParseEntities(filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
