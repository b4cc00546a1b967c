package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// LoadError means the catalog directory itself could not be read. Bad
// individual documents are skipped, never reported through this.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("reading catalog directory %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads every .json document in dir into a catalog snapshot. Files with
// other extensions are ignored. A document that fails to parse, has a
// non-positive id, or repeats an already-loaded id is logged and skipped so
// one broken file cannot take the whole catalog down. Listing order follows
// the directory listing, which os.ReadDir returns sorted by filename.
func Load(ctx context.Context, dir string, log *logger.Logger) (*Catalog, error) {
	requestID := logger.GenerateRequestID()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	seen := make(map[int]string)
	var restaurants []*models.Restaurant
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, &LoadError{Dir: dir, Err: err}
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("catalog_file_skipped", requestID, fmt.Sprintf("Failed to read %s", path), err)
			continue
		}

		var r models.Restaurant
		if err := json.Unmarshal(data, &r); err != nil {
			log.Error("catalog_file_skipped", requestID, fmt.Sprintf("Failed to parse %s", path), err)
			continue
		}
		if r.ID <= 0 {
			log.Error("catalog_file_skipped", requestID, fmt.Sprintf("%s has no valid restaurant id", path), nil)
			continue
		}
		if prev, dup := seen[r.ID]; dup {
			log.Error("catalog_file_skipped", requestID, fmt.Sprintf("%s reuses restaurant id %d from %s", path, r.ID, prev), nil)
			continue
		}

		seen[r.ID] = path
		restaurants = append(restaurants, &r)
		log.Debug("catalog_file_loaded", requestID, fmt.Sprintf("Loaded restaurant %d (%s) from %s", r.ID, r.Name, path))
	}

	return New(restaurants), nil
}
