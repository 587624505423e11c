package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"bolao/internal/database"
	"bolao/internal/db"
	"bolao/internal/domain"
	"bolao/internal/lottery"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}

func TestPoolRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	sqlDB, queries := openTestDB(t)
	repo := NewPoolRepository(sqlDB, queries, zerolog.Nop())

	pool := &domain.Pool{
		Name:       "Bolão da firma",
		Variant:    lottery.MegaSena,
		DrawDate:   lottery.NewDate(2024, time.June, 4),
		QuotaPrice: 25.5,
	}
	require.NoError(t, repo.Create(ctx, pool))
	require.NotEmpty(t, pool.ID)

	got, err := repo.Get(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, pool.Name, got.Name)
	assert.Equal(t, lottery.MegaSena, got.Variant)
	assert.Equal(t, "2024-06-04", got.DrawDate.String())
	assert.Equal(t, 25.5, got.QuotaPrice)
	assert.Zero(t, got.DrawNumber)

	require.NoError(t, repo.SetDrawNumber(ctx, pool.ID, 2734))
	got, err = repo.Get(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 2734, got.DrawNumber)

	second := &domain.Pool{Name: "Família", Variant: lottery.MegaSena, DrawDate: lottery.NewDate(2024, time.June, 8)}
	require.NoError(t, repo.Create(ctx, second))

	pools, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, second.ID, pools[0].ID, "latest draw date first")

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetDrawNumber(ctx, "missing", 1), ErrNotFound)
}

func TestPoolRepository_Participants(t *testing.T) {
	ctx := context.Background()
	sqlDB, queries := openTestDB(t)
	repo := NewPoolRepository(sqlDB, queries, zerolog.Nop())

	pool := &domain.Pool{Name: "p", Variant: lottery.MegaSena, DrawDate: lottery.NewDate(2024, time.June, 4)}
	require.NoError(t, repo.Create(ctx, pool))

	ana := &domain.Participant{PoolID: pool.ID, Name: "Ana", Quotas: 2}
	bia := &domain.Participant{PoolID: pool.ID, Name: "Bia", Quotas: 1}
	require.NoError(t, repo.AddParticipant(ctx, ana))
	require.NoError(t, repo.AddParticipant(ctx, bia))

	paidAt := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetPayment(ctx, pool.ID, ana.ID, true, paidAt))

	list, err := repo.Participants(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byName := map[string]domain.Participant{}
	for _, p := range list {
		byName[p.Name] = p
	}
	assert.True(t, byName["Ana"].Paid)
	require.NotNil(t, byName["Ana"].PaidAt)
	assert.True(t, paidAt.Equal(*byName["Ana"].PaidAt))
	assert.False(t, byName["Bia"].Paid)
	assert.Nil(t, byName["Bia"].PaidAt)

	require.NoError(t, repo.SetPayment(ctx, pool.ID, ana.ID, false, time.Time{}))
	list, err = repo.Participants(ctx, pool.ID)
	require.NoError(t, err)
	for _, p := range list {
		assert.False(t, p.Paid)
	}

	assert.ErrorIs(t, repo.SetPayment(ctx, "other-pool", bia.ID, true, paidAt), ErrNotFound)

	orphan := &domain.Participant{PoolID: "missing", Name: "X", Quotas: 1}
	assert.Error(t, repo.AddParticipant(ctx, orphan), "foreign keys are enforced")
}

func TestTicketRepository(t *testing.T) {
	ctx := context.Background()
	sqlDB, queries := openTestDB(t)
	pools := NewPoolRepository(sqlDB, queries, zerolog.Nop())
	repo := NewTicketRepository(sqlDB, queries, zerolog.Nop())

	pool := &domain.Pool{Name: "p", Variant: lottery.MegaSena, DrawDate: lottery.NewDate(2024, time.June, 4)}
	require.NoError(t, pools.Create(ctx, pool))

	tickets := []domain.Ticket{
		{PoolID: pool.ID, Numbers: []int{1, 2, 3, 4, 5, 6}},
		{PoolID: pool.ID, Numbers: []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets))
	for _, tk := range tickets {
		assert.NotEmpty(t, tk.ID)
	}

	got, err := repo.ListByPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[string][]int{}
	for _, tk := range got {
		byID[tk.ID] = tk.Numbers
	}
	assert.Equal(t, tickets[0].Numbers, byID[tickets[0].ID])
	assert.Equal(t, tickets[1].Numbers, byID[tickets[1].ID])

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO tickets (id, pool_id, numbers, created_at) VALUES ('bad', ?, 'oops', ?)`, pool.ID, time.Now())
	require.NoError(t, err)
	got, err = repo.ListByPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2, "unreadable rows are skipped")

	require.NoError(t, repo.CreateBatch(ctx, nil))
}

func TestDrawRepository(t *testing.T) {
	ctx := context.Background()
	sqlDB, queries := openTestDB(t)
	repo := NewDrawRepository(sqlDB, queries, zerolog.Nop())

	_, err := repo.Latest(ctx, lottery.MegaSena)
	assert.ErrorIs(t, err, ErrNotFound)

	older := &domain.DrawResult{
		Variant:    lottery.MegaSena,
		DrawNumber: 2733,
		Date:       lottery.NewDate(2024, time.June, 1),
		Numbers:    []int{3, 14, 15, 26, 35, 59},
		FetchedAt:  time.Now().UTC(),
	}
	newer := &domain.DrawResult{
		Variant:     lottery.MegaSena,
		DrawNumber:  2734,
		Date:        lottery.NewDate(2024, time.June, 4),
		Numbers:     []int{4, 8, 15, 16, 23, 42},
		Accumulated: true,
		PrizeTiers: []domain.PrizeTier{
			{Hits: 6, Label: "6 acertos", Winners: 0, Amount: 0},
			{Hits: 5, Label: "5 acertos", Winners: 40, Amount: 51234.56},
		},
		NextDrawDate:       lottery.NewDate(2024, time.June, 6),
		NextEstimatedPrize: 30_000_000,
		FetchedAt:          time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, older))
	require.NoError(t, repo.Upsert(ctx, newer))

	latest, err := repo.Latest(ctx, lottery.MegaSena)
	require.NoError(t, err)
	assert.Equal(t, 2734, latest.DrawNumber)
	assert.Equal(t, newer.Numbers, latest.Numbers)
	assert.True(t, latest.Accumulated)
	assert.Equal(t, newer.PrizeTiers, latest.PrizeTiers)
	assert.Equal(t, "2024-06-06", latest.NextDrawDate.String())
	assert.Equal(t, 30_000_000.0, latest.NextEstimatedPrize)

	got, err := repo.Get(ctx, lottery.MegaSena, 2733)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", got.Date.String())
	assert.Empty(t, got.PrizeTiers)
	assert.True(t, got.NextDrawDate.IsZero())

	older.Accumulated = true
	require.NoError(t, repo.Upsert(ctx, older))
	got, err = repo.Get(ctx, lottery.MegaSena, 2733)
	require.NoError(t, err)
	assert.True(t, got.Accumulated)

	_, err = repo.Get(ctx, lottery.MegaSena, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
