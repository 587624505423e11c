package db

import (
	"context"
	"database/sql"
	"time"
)

const createPool = `
INSERT INTO pools (id, name, variant, draw_date, draw_number, quota_price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreatePoolParams struct {
	ID         string
	Name       string
	Variant    string
	DrawDate   string
	DrawNumber int64
	QuotaPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreatePool(ctx context.Context, arg CreatePoolParams) error {
	_, err := q.db.ExecContext(ctx, createPool,
		arg.ID,
		arg.Name,
		arg.Variant,
		arg.DrawDate,
		arg.DrawNumber,
		arg.QuotaPrice,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getPool = `
SELECT id, name, variant, draw_date, draw_number, quota_price, created_at, updated_at
FROM pools
WHERE id = ?
`

func (q *Queries) GetPool(ctx context.Context, id string) (Pool, error) {
	row := q.db.QueryRowContext(ctx, getPool, id)
	var i Pool
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Variant,
		&i.DrawDate,
		&i.DrawNumber,
		&i.QuotaPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPools = `
SELECT id, name, variant, draw_date, draw_number, quota_price, created_at, updated_at
FROM pools
ORDER BY draw_date DESC, created_at DESC
LIMIT ?
`

func (q *Queries) ListPools(ctx context.Context, limit int64) ([]Pool, error) {
	rows, err := q.db.QueryContext(ctx, listPools, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Pool
	for rows.Next() {
		var i Pool
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Variant,
			&i.DrawDate,
			&i.DrawNumber,
			&i.QuotaPrice,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePoolDrawNumber = `
UPDATE pools SET draw_number = ?, updated_at = ? WHERE id = ?
`

type UpdatePoolDrawNumberParams struct {
	DrawNumber int64
	UpdatedAt  time.Time
	ID         string
}

func (q *Queries) UpdatePoolDrawNumber(ctx context.Context, arg UpdatePoolDrawNumberParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updatePoolDrawNumber, arg.DrawNumber, arg.UpdatedAt, arg.ID)
}

const createParticipant = `
INSERT INTO participants (id, pool_id, name, quotas, paid, paid_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateParticipantParams struct {
	ID        string
	PoolID    string
	Name      string
	Quotas    int64
	Paid      bool
	PaidAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateParticipant(ctx context.Context, arg CreateParticipantParams) error {
	_, err := q.db.ExecContext(ctx, createParticipant,
		arg.ID,
		arg.PoolID,
		arg.Name,
		arg.Quotas,
		arg.Paid,
		arg.PaidAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const listParticipantsByPool = `
SELECT id, pool_id, name, quotas, paid, paid_at, created_at, updated_at
FROM participants
WHERE pool_id = ?
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListParticipantsByPool(ctx context.Context, poolID string) ([]Participant, error) {
	rows, err := q.db.QueryContext(ctx, listParticipantsByPool, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Participant
	for rows.Next() {
		var i Participant
		if err := rows.Scan(
			&i.ID,
			&i.PoolID,
			&i.Name,
			&i.Quotas,
			&i.Paid,
			&i.PaidAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateParticipantPayment = `
UPDATE participants SET paid = ?, paid_at = ?, updated_at = ?
WHERE id = ? AND pool_id = ?
`

type UpdateParticipantPaymentParams struct {
	Paid      bool
	PaidAt    sql.NullTime
	UpdatedAt time.Time
	ID        string
	PoolID    string
}

func (q *Queries) UpdateParticipantPayment(ctx context.Context, arg UpdateParticipantPaymentParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateParticipantPayment,
		arg.Paid,
		arg.PaidAt,
		arg.UpdatedAt,
		arg.ID,
		arg.PoolID,
	)
}
