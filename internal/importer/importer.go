// Package importer loads user records in bulk from a JSON array.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/userdir/userdir-server/internal/logger"
	"github.com/userdir/userdir-server/internal/model"
)

// Summary reports what an import run did.
type Summary struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
}

// Importer writes user records to the store in batches.
type Importer struct {
	store  model.Store
	logger *logger.Logger
}

// New creates a new Importer.
func New(store model.Store, logger *logger.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger,
	}
}

// Run decodes a JSON array of users from r and writes them in batches
// of the store's batch limit. Records without an email are skipped and
// a failed batch is logged and skipped; neither aborts the run.
func (i *Importer) Run(ctx context.Context, r io.Reader) (Summary, error) {
	var users []model.User
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return Summary{}, fmt.Errorf("failed to decode import file: %w", err)
	}

	summary := Summary{Total: len(users)}

	batch := make([]model.User, 0, model.BatchPutLimit)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := i.store.BatchPut(ctx, batch); err != nil {
			i.logger.Error("batch write failed",
				"size", len(batch),
				"error", err.Error())
			summary.Failed += len(batch)
		} else {
			summary.Imported += len(batch)
		}
		batch = batch[:0]
	}

	for _, user := range users {
		if user.Email == "" {
			i.logger.Warn("skipping record without email",
				"firstName", user.FirstName,
				"lastName", user.LastName)
			summary.Skipped++
			continue
		}

		user.ItemType = model.ItemTypeUser
		batch = append(batch, user)
		if len(batch) == model.BatchPutLimit {
			flush()
		}
	}
	flush()

	i.logger.Info("import finished",
		"total", summary.Total,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

// RunObject imports the object stored under key in the given storage.
func (i *Importer) RunObject(ctx context.Context, storage model.Storage, key string) (Summary, error) {
	exists, err := storage.Exists(ctx, key)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check object: %w", err)
	}
	if !exists {
		return Summary{}, fmt.Errorf("object %q not found", key)
	}

	rc, err := storage.Download(ctx, key)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to download object: %w", err)
	}
	defer rc.Close()

	return i.Run(ctx, rc)
}
