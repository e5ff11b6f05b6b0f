package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// DirLoader loads every *.txt file under a directory, recursively, as one
// document per file. Source.URI is the directory.
type DirLoader struct{}

var _ document.Loader = DirLoader{}

func (DirLoader) Load(_ context.Context, src document.Source, _ ...document.LoaderOption) ([]*schema.Document, error) {
	root := src.URI
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)

	docs := make([]*schema.Document, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = filepath.Base(p)
		}
		rel = filepath.ToSlash(rel)
		docs = append(docs, &schema.Document{
			ID:       rel,
			Content:  string(b),
			MetaData: map[string]any{fieldSource: rel},
		})
	}
	return docs, nil
}
