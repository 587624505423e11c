package db

import (
	"context"
	"time"
)

const createTicket = `
INSERT INTO tickets (id, pool_id, numbers, created_at)
VALUES (?, ?, ?, ?)
`

type CreateTicketParams struct {
	ID        string
	PoolID    string
	Numbers   string
	CreatedAt time.Time
}

func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) error {
	_, err := q.db.ExecContext(ctx, createTicket,
		arg.ID,
		arg.PoolID,
		arg.Numbers,
		arg.CreatedAt,
	)
	return err
}

const listTicketsByPool = `
SELECT id, pool_id, numbers, created_at
FROM tickets
WHERE pool_id = ?
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListTicketsByPool(ctx context.Context, poolID string) ([]Ticket, error) {
	rows, err := q.db.QueryContext(ctx, listTicketsByPool, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ticket
	for rows.Next() {
		var i Ticket
		if err := rows.Scan(
			&i.ID,
			&i.PoolID,
			&i.Numbers,
			&i.CreatedAt,
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
