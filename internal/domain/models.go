package domain

import (
	"time"

	"bolao/internal/lottery"
)

type Pool struct {
	ID         string
	Name       string
	Variant    lottery.Variant
	DrawDate   lottery.Date
	DrawNumber int // 0 when the contest number is not known yet
	QuotaPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Participant struct {
	ID        string
	PoolID    string
	Name      string
	Quotas    int
	Paid      bool
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ticket struct {
	ID        string
	PoolID    string
	Numbers   []int
	CreatedAt time.Time
}

type PrizeTier struct {
	Hits    int     `json:"hits"`
	Label   string  `json:"label"`
	Winners int     `json:"winners"`
	Amount  float64 `json:"amount"`
}

type DrawResult struct {
	Variant            lottery.Variant
	DrawNumber         int
	Date               lottery.Date
	Numbers            []int
	Accumulated        bool
	PrizeTiers         []PrizeTier // as reported by the source, display only
	NextDrawDate       lottery.Date
	NextEstimatedPrize float64
	FetchedAt          time.Time
}

type PoolTotals struct {
	Participants int
	Quotas       int
	PaidQuotas   int
	Collected    float64
	Pending      float64
}

type ParticipantShare struct {
	ParticipantID string
	Name          string
	Quotas        int
	Paid          bool
	Amount        float64
}

type PoolReport struct {
	Pool    Pool
	Draw    DrawResult
	Results []lottery.TicketResult
	Summary lottery.BatchSummary
	Shares  []ParticipantShare
}
