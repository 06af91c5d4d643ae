package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/userdir/userdir-server/internal/mocks"
	"github.com/userdir/userdir-server/internal/model"
	"github.com/userdir/userdir-server/internal/testutil"
)

func usersJSON(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"email":"user%03d@example.com","firstName":"User%03d"}`, i, i)
	}
	b.WriteString("]")
	return b.String()
}

func TestImporter_Run(t *testing.T) {
	t.Run("writes in batches of the store limit", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		batchOf := func(n int) interface{} {
			return mock.MatchedBy(func(users []model.User) bool {
				if len(users) != n {
					return false
				}
				for _, u := range users {
					if u.ItemType != model.ItemTypeUser {
						return false
					}
				}
				return true
			})
		}

		store.On("BatchPut", mock.Anything, batchOf(model.BatchPutLimit)).Return(nil).Twice()
		store.On("BatchPut", mock.Anything, batchOf(10)).Return(nil).Once()

		summary, err := imp.Run(context.Background(), strings.NewReader(usersJSON(60)))
		require.NoError(t, err)

		assert.Equal(t, 60, summary.Total)
		assert.Equal(t, 60, summary.Imported)
		assert.Zero(t, summary.Skipped)
		assert.Zero(t, summary.Failed)
	})

	t.Run("continues past a failed batch", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		store.On("BatchPut", mock.Anything, mock.Anything).Return(errors.New("throttled")).Once()
		store.On("BatchPut", mock.Anything, mock.Anything).Return(nil).Once()

		summary, err := imp.Run(context.Background(), strings.NewReader(usersJSON(30)))
		require.NoError(t, err)

		assert.Equal(t, 30, summary.Total)
		assert.Equal(t, 5, summary.Imported)
		assert.Equal(t, 25, summary.Failed)
	})

	t.Run("skips records without an email", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		store.On("BatchPut", mock.Anything, mock.MatchedBy(func(users []model.User) bool {
			return len(users) == 1 && users[0].Email == "a@example.com"
		})).Return(nil)

		input := `[{"firstName":"NoEmail"},{"email":"a@example.com","firstName":"Adam"}]`
		summary, err := imp.Run(context.Background(), strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		_, err := imp.Run(context.Background(), strings.NewReader(`{"not":"an array"}`))
		require.Error(t, err)
	})

	t.Run("handles an empty array", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		summary, err := imp.Run(context.Background(), strings.NewReader("[]"))
		require.NoError(t, err)
		assert.Zero(t, summary.Total)
	})
}

type fakeStorage struct {
	exists    bool
	existsErr error
	body      string
}

func (f *fakeStorage) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func (f *fakeStorage) Exists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func TestImporter_RunObject(t *testing.T) {
	t.Run("imports an existing object", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		store.On("BatchPut", mock.Anything, mock.Anything).Return(nil)

		summary, err := imp.RunObject(context.Background(), &fakeStorage{
			exists: true,
			body:   `[{"email":"a@example.com"}]`,
		}, "users.json")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Imported)
	})

	t.Run("fails on a missing object", func(t *testing.T) {
		store := mocks.NewStore(t)
		imp := New(store, testutil.MakeNoopLogger())

		_, err := imp.RunObject(context.Background(), &fakeStorage{exists: false}, "users.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
