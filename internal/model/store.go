package model

import "context"

// ScanInput describes an index scan. When IndexName is empty the
// primary index is used. KeyAttr/KeyValue form the equality condition
// on the index's partition key.
type ScanInput struct {
	IndexName  string
	KeyAttr    string
	KeyValue   string
	Projection []string
	Limit      int32
	StartAfter Key
}

// ScanOutput carries one page of records. NextKey is non-nil only when
// more data exists beyond this page.
type ScanOutput struct {
	Items   []User
	NextKey Key
}

// Store defines the key-value persistence operations for user records.
// Implementations return ErrNotFound from Get, PutExisting and Delete
// when the keyed record is absent.
type Store interface {
	Get(ctx context.Context, key Key) (User, error)
	// Put upserts the record, overwriting any existing attributes.
	Put(ctx context.Context, user User) error
	// PutExisting overwrites the record only if it already exists.
	PutExisting(ctx context.Context, user User) error
	Delete(ctx context.Context, key Key) error
	Scan(ctx context.Context, in ScanInput) (ScanOutput, error)
	// BatchPut upserts one chunk of records. Callers keep chunks at or
	// below BatchPutLimit.
	BatchPut(ctx context.Context, users []User) error
}

// BatchPutLimit is the largest chunk a single BatchPut accepts, matching
// the DynamoDB batch-write ceiling.
const BatchPutLimit = 25
