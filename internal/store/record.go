package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type recordRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *recordRepo) Get(ctx context.Context, key string) (*Record, error) {
	rec := &Record{Key: key}
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value, sequence, updated_at FROM records WHERE key = ?`, key,
	).Scan(&value, &rec.Sequence, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", key, err)
	}
	rec.Value = []byte(value)
	return rec, nil
}

func (r *recordRepo) Put(ctx context.Context, key string, value []byte) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (key, value, sequence, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			sequence = excluded.sequence,
			updated_at = excluded.updated_at`,
		key, string(value), seqNum, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}
