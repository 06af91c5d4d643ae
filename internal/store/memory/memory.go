// Package memory provides an in-process Store used for local runs and
// tests. Records are held in a mutex-guarded map and scans walk emails
// in ascending order, mirroring the sort order of the real backends.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/userdir/userdir-server/internal/model"
)

var _ model.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	items map[string]model.User
}

func New() *Store {
	return &Store{items: make(map[string]model.User)}
}

func (s *Store) Get(_ context.Context, key model.Key) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.items[key["email"]]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (s *Store) Put(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[user.Email] = user
	return nil
}

func (s *Store) PutExisting(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[user.Email]; !ok {
		return model.ErrNotFound
	}
	s.items[user.Email] = user
	return nil
}

func (s *Store) Delete(_ context.Context, key model.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := key["email"]
	if _, ok := s.items[email]; !ok {
		return model.ErrNotFound
	}
	delete(s.items, email)
	return nil
}

func (s *Store) BatchPut(_ context.Context, users []model.User) error {
	if len(users) > model.BatchPutLimit {
		return fmt.Errorf("batch of %d exceeds limit of %d", len(users), model.BatchPutLimit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		s.items[u.Email] = u
	}
	return nil
}

func (s *Store) Scan(_ context.Context, in model.ScanInput) (model.ScanOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emails := make([]string, 0, len(s.items))
	for email, u := range s.items {
		if !matches(u, in) {
			continue
		}
		emails = append(emails, email)
	}
	sort.Strings(emails)

	if after, ok := in.StartAfter["email"]; ok {
		i := sort.SearchStrings(emails, after)
		if i < len(emails) && emails[i] == after {
			i++
		}
		emails = emails[i:]
	}

	var out model.ScanOutput
	for i, email := range emails {
		if in.Limit > 0 && int32(i) == in.Limit {
			out.NextKey = s.continuation(in, emails[i-1])
			break
		}
		out.Items = append(out.Items, s.items[email].Project(in.Projection))
	}

	return out, nil
}

func matches(u model.User, in model.ScanInput) bool {
	switch in.KeyAttr {
	case "email":
		return u.Email == in.KeyValue
	case "itemType":
		return u.ItemType == in.KeyValue
	default:
		return false
	}
}

func (s *Store) continuation(in model.ScanInput, lastEmail string) model.Key {
	key := model.Key{"email": lastEmail}
	if in.IndexName != "" {
		key[in.KeyAttr] = in.KeyValue
	}
	return key
}
