// Package postgres implements the user store on PostgreSQL. Scans use
// keyset pagination over the email column, so continuation keys carry
// the same shape the DynamoDB driver produces.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/userdir/userdir-server/internal/model"
)

var _ model.Store = (*Store)(nil)

type Store struct {
	db *Connection
}

func NewStore(db *Connection) *Store {
	return &Store{db: db}
}

const upsertQuery = `INSERT INTO user_records (email, item_type, first_name, last_name, gender, job_title, country)
	 VALUES ($1, $2, $3, $4, $5, $6, $7)
	 ON CONFLICT (email) DO UPDATE SET
		item_type = EXCLUDED.item_type,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		gender = EXCLUDED.gender,
		job_title = EXCLUDED.job_title,
		country = EXCLUDED.country`

func (s *Store) Get(ctx context.Context, key model.Key) (model.User, error) {
	var user model.User
	query := `SELECT email, item_type, first_name, last_name, gender, job_title, country
			  FROM user_records WHERE email = $1`

	err := s.db.QueryRow(ctx, query, key["email"]).Scan(
		&user.Email, &user.ItemType, &user.FirstName, &user.LastName,
		&user.Gender, &user.JobTitle, &user.Country,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user record: %w", err)
	}

	return user, nil
}

func (s *Store) Put(ctx context.Context, user model.User) error {
	_, err := s.db.Exec(ctx, upsertQuery,
		user.Email, user.ItemType, user.FirstName, user.LastName,
		user.Gender, user.JobTitle, user.Country,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user record: %w", err)
	}
	return nil
}

func (s *Store) PutExisting(ctx context.Context, user model.User) error {
	query := `UPDATE user_records SET
		item_type = $2, first_name = $3, last_name = $4,
		gender = $5, job_title = $6, country = $7
	 WHERE email = $1`

	tag, err := s.db.Exec(ctx, query,
		user.Email, user.ItemType, user.FirstName, user.LastName,
		user.Gender, user.JobTitle, user.Country,
	)
	if err != nil {
		return fmt.Errorf("failed to update user record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key model.Key) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM user_records WHERE email = $1`, key["email"])
	if err != nil {
		return fmt.Errorf("failed to delete user record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, in model.ScanInput) (model.ScanOutput, error) {
	var column string
	switch in.KeyAttr {
	case "email":
		column = "email"
	case "itemType":
		column = "item_type"
	default:
		return model.ScanOutput{}, fmt.Errorf("unsupported scan key attribute: %q", in.KeyAttr)
	}

	// Keyset pagination: resume strictly after the cursor's email. The
	// empty string sorts before every valid address.
	query := fmt.Sprintf(`SELECT email, item_type, first_name, last_name, gender, job_title, country
		 FROM user_records WHERE %s = $1 AND email > $2 ORDER BY email`, column)
	args := []any{in.KeyValue, in.StartAfter["email"]}

	// Fetch one extra row to learn whether more data exists.
	if in.Limit > 0 {
		query += " LIMIT $3"
		args = append(args, in.Limit+1)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return model.ScanOutput{}, fmt.Errorf("failed to scan user records: %w", err)
	}
	defer rows.Close()

	var items []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.Email, &user.ItemType, &user.FirstName, &user.LastName,
			&user.Gender, &user.JobTitle, &user.Country,
		); err != nil {
			return model.ScanOutput{}, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return model.ScanOutput{}, fmt.Errorf("failed to read rows: %w", err)
	}

	out := model.ScanOutput{}
	if in.Limit > 0 && int32(len(items)) > in.Limit {
		items = items[:in.Limit]
		last := items[len(items)-1]
		out.NextKey = model.Key{"email": last.Email}
		if in.IndexName != "" {
			out.NextKey[in.KeyAttr] = in.KeyValue
		}
	}

	for i := range items {
		items[i] = items[i].Project(in.Projection)
	}
	out.Items = items

	return out, nil
}

func (s *Store) BatchPut(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	if len(users) > model.BatchPutLimit {
		return fmt.Errorf("batch of %d exceeds limit of %d", len(users), model.BatchPutLimit)
	}

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(upsertQuery,
			u.Email, u.ItemType, u.FirstName, u.LastName,
			u.Gender, u.JobTitle, u.Country,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range users {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch upsert: %w", err)
		}
	}
	return nil
}
