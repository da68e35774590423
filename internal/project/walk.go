// Package project discovers and parses the markdown files of a project tree.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/parser"
	"github.com/aidanlsb/relink/internal/paths"
)

// parseConcurrency bounds the parse fan-out during discovery.
const parseConcurrency = 8

func isBuiltinMarkdown(path string) bool { return paths.IsMarkdown(path) }

// Discover enumerates the markdown files under root, skipping hidden and
// configured-ignored directories. Paths are returned absolute and sorted.
func Discover(root string, cfg *Config) ([]string, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && cfg.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.IsMarkdownPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Corpus is the parsed markdown set of a project, ready for graph
// construction.
type Corpus struct {
	Files    []*model.ParsedFile
	Contents map[string]string
	Warnings []string
}

// ParseAll discovers and parses every markdown file under root. Files are
// parsed concurrently; results are merged in lexicographic path order so
// planning downstream is reproducible. A file that cannot be read or parsed
// is skipped with a warning, never aborting the batch.
func ParseAll(root string, cfg *Config) (*Corpus, error) {
	found, err := Discover(root, cfg)
	if err != nil {
		return nil, err
	}

	type result struct {
		file     *model.ParsedFile
		content  string
		warnings []string
	}

	results := make([]*result, len(found))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(parseConcurrency)
	for i, path := range found {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				results[i] = &result{warnings: []string{fmt.Sprintf("%s: %v", path, err)}}
				mu.Unlock()
				return nil
			}
			file, warnings := parser.Parse(string(data), path)
			mu.Lock()
			results[i] = &result{file: file, content: string(data), warnings: warnings}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corpus := &Corpus{Contents: make(map[string]string, len(found))}
	for _, r := range results {
		if r == nil {
			continue
		}
		corpus.Warnings = append(corpus.Warnings, r.warnings...)
		if r.file != nil {
			corpus.Files = append(corpus.Files, r.file)
			corpus.Contents[r.file.Path] = r.content
		}
	}
	return corpus, nil
}
