package db

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

type Pool struct {
	ID         string
	Name       string
	Variant    string
	DrawDate   string
	DrawNumber int64
	QuotaPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Participant struct {
	ID        string
	PoolID    string
	Name      string
	Quotas    int64
	Paid      bool
	PaidAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ticket struct {
	ID        string
	PoolID    string
	Numbers   string
	CreatedAt time.Time
}

type DrawResult struct {
	Variant            string
	DrawNumber         int64
	DrawDate           string
	Numbers            string
	Accumulated        bool
	PrizeTiers         string
	NextDrawDate       string
	NextEstimatedPrize float64
	FetchedAt          time.Time
}
