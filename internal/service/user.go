package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/userdir/userdir-server/internal/cursor"
	"github.com/userdir/userdir-server/internal/logger"
	"github.com/userdir/userdir-server/internal/model"
)

// User implements the directory operations on top of the store.
type User struct {
	store     model.Store
	indexName string
	logger    *logger.Logger
}

// NewUser creates the user service. indexName is the secondary index
// keyed by itemType used for full listings.
func NewUser(store model.Store, indexName string, logger *logger.Logger) *User {
	return &User{
		store:     store,
		indexName: indexName,
		logger:    logger,
	}
}

// List returns one page of users. With an email filter it scans the
// primary index for that key; otherwise it scans the type index for
// every user record. Results are re-sorted by firstName because the
// store orders by its own key, and the client-facing ordering is
// independent of that.
func (s *User) List(ctx context.Context, params model.ListParams) (model.ListResult, error) {
	startAfter, err := cursor.Decode(params.NextToken)
	if err != nil {
		return model.ListResult{}, fmt.Errorf("failed to decode next token: %w", err)
	}

	in := model.ScanInput{
		Projection: params.ReturnAttributes,
		Limit:      params.Limit,
		StartAfter: startAfter,
	}
	if params.Email != "" {
		in.KeyAttr = "email"
		in.KeyValue = params.Email
	} else {
		in.IndexName = s.indexName
		in.KeyAttr = "itemType"
		in.KeyValue = model.ItemTypeUser
	}

	out, err := s.store.Scan(ctx, in)
	if err != nil {
		return model.ListResult{}, fmt.Errorf("failed to scan users: %w", err)
	}

	// Stable string sort keeps records with equal names in store order.
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].FirstName < out.Items[j].FirstName
	})

	return model.ListResult{
		Users:     out.Items,
		NextToken: cursor.Encode(out.NextKey),
	}, nil
}

// Create upserts a fresh record. There is deliberately no existence
// check: reusing an email overwrites the previous record, last write
// wins.
func (s *User) Create(ctx context.Context, user model.User) error {
	user.ItemType = model.ItemTypeUser

	if err := s.store.Put(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("user created", "email", user.Email)
	return nil
}

// Update merges the supplied attributes onto the stored record. The
// read is needed for the merge; the final write is conditional on the
// record still existing, so a concurrent delete cannot be resurrected.
func (s *User) Update(ctx context.Context, patch model.User) error {
	existing, err := s.store.Get(ctx, model.PrimaryKey(patch.Email))
	if err != nil {
		return fmt.Errorf("failed to get user for update: %w", err)
	}

	if err := s.store.PutExisting(ctx, existing.Merge(patch)); err != nil {
		return fmt.Errorf("failed to store updated user: %w", err)
	}

	s.logger.Debug("user updated", "email", patch.Email)
	return nil
}

// Delete removes the record by key. The store reports ErrNotFound when
// there was nothing to remove.
func (s *User) Delete(ctx context.Context, email string) error {
	if err := s.store.Delete(ctx, model.PrimaryKey(email)); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Debug("user deleted", "email", email)
	return nil
}
