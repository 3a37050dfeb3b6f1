package content

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tranvantrung27/herbadmin/internal/store"
)

//go:embed categories.yaml
var categoriesYAML []byte

type seedFile struct {
	Categories []string `yaml:"categories"`
}

// DefaultCategories returns the embedded seed list.
func DefaultCategories() ([]string, error) {
	var f seedFile
	if err := yaml.Unmarshal(categoriesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse category seed list: %w", err)
	}
	return f.Categories, nil
}

// SeedCategories inserts the default categories that are not already present,
// comparing names case-insensitively, in a single batch write. It returns how
// many were added. Running it twice is a no-op.
func SeedCategories(ctx context.Context, s store.Store) (int, error) {
	defaults, err := DefaultCategories()
	if err != nil {
		return 0, err
	}

	existing, err := s.List(ctx, CollectionCategories)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, d := range existing {
		taken[strings.ToLower(str(d, "name"))] = true
	}

	var ops []store.BatchOp
	for _, name := range defaults {
		if taken[strings.ToLower(name)] {
			continue
		}
		ops = append(ops, store.BatchOp{
			Collection: CollectionCategories,
			Data:       map[string]any{"name": name},
		})
	}
	if len(ops) == 0 {
		return 0, nil
	}
	if err := s.Batch(ctx, ops); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return len(ops), nil
}
