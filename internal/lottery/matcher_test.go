package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoGames(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		perGame int
		want    []Game
	}{
		{
			name:    "two full games",
			numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			perGame: 6,
			want: []Game{
				{Index: 0, Numbers: []int{1, 2, 3, 4, 5, 6}},
				{Index: 1, Numbers: []int{7, 8, 9, 10, 11, 12}},
			},
		},
		{
			name:    "trailing partial game is dropped",
			numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			perGame: 6,
			want:    []Game{{Index: 0, Numbers: []int{1, 2, 3, 4, 5, 6}}},
		},
		{
			name:    "shorter than one game",
			numbers: []int{1, 2, 3},
			perGame: 6,
			want:    []Game{},
		},
		{
			name:    "empty ticket",
			numbers: nil,
			perGame: 6,
			want:    []Game{},
		},
		{
			name:    "non-positive game size",
			numbers: []int{1, 2, 3},
			perGame: 0,
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitIntoGames(tc.numbers, tc.perGame))
		})
	}
}

func TestSplitIntoGames_ConcatenationRestoresTicket(t *testing.T) {
	ticket := []int{4, 8, 15, 16, 23, 42, 1, 9, 17, 33, 41, 60, 2, 3, 5, 7, 11, 13}
	games := SplitIntoGames(ticket, 6)
	require.Len(t, games, 3)

	var joined []int
	for _, g := range games {
		joined = append(joined, g.Numbers...)
	}
	assert.Equal(t, ticket, joined)
}

func TestSplitIntoGames_DoesNotAliasInput(t *testing.T) {
	ticket := []int{1, 2, 3, 4, 5, 6}
	games := SplitIntoGames(ticket, 6)
	ticket[0] = 99
	assert.Equal(t, 1, games[0].Numbers[0])
}

func TestMatchGame(t *testing.T) {
	game := Game{Index: 2, Numbers: []int{10, 20, 30, 40, 50, 60}}

	res := MatchGame(game, []int{60, 1, 30, 2, 10, 3})
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, 3, res.Hits)
	assert.Equal(t, []int{10, 30, 60}, res.MatchedNumbers, "matched numbers follow the game order")

	miss := MatchGame(game, []int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 0, miss.Hits)
	assert.Empty(t, miss.MatchedNumbers)
}

func TestMatchGame_DrawOrderDoesNotMatter(t *testing.T) {
	game := Game{Numbers: []int{5, 17, 23, 38, 44, 59}}
	draws := [][]int{
		{5, 23, 44, 1, 2, 3},
		{44, 3, 5, 2, 23, 1},
		{1, 2, 3, 44, 23, 5},
	}

	first := MatchGame(game, draws[0])
	for _, d := range draws[1:] {
		got := MatchGame(game, d)
		assert.Equal(t, first.Hits, got.Hits)
		assert.Equal(t, first.MatchedNumbers, got.MatchedNumbers)
	}
	assert.Equal(t, first, MatchGame(game, draws[0]))
}

func TestMatchGame_RepeatedNumbersCountEachOccurrence(t *testing.T) {
	res := MatchGame(Game{Numbers: []int{5, 5, 1, 2, 3, 4}}, []int{5, 50, 51, 52, 53, 54})
	assert.Equal(t, 2, res.Hits)
	assert.Equal(t, []int{5, 5}, res.MatchedNumbers)
}

func TestMatchTicket(t *testing.T) {
	ticket := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	res := MatchTicket("t1", ticket, []int{1, 2, 3, 4, 5, 6}, 6)

	require.Len(t, res.Games, 2)
	assert.Equal(t, "t1", res.TicketID)
	assert.Equal(t, 6, res.Games[0].Hits)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, res.Games[0].MatchedNumbers)
	assert.Equal(t, 0, res.Games[1].Hits)
	assert.Equal(t, 6, res.TotalHits)
	assert.Zero(t, res.Prize)
}

func TestMatchTicket_SumsHitsAcrossGames(t *testing.T) {
	ticket := []int{1, 2, 3, 4, 40, 41, 1, 2, 3, 4, 50, 51}
	res := MatchTicket("t2", ticket, []int{1, 2, 3, 4, 5, 6}, 6)

	assert.Equal(t, 4, res.Games[0].Hits)
	assert.Equal(t, 4, res.Games[1].Hits)
	assert.Equal(t, 8, res.TotalHits)
}

func TestMatchTicket_TruncatedTicket(t *testing.T) {
	res := MatchTicket("t3", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, []int{7, 8, 9, 10, 11, 12}, 6)
	require.Len(t, res.Games, 1)
	assert.Equal(t, 0, res.TotalHits)
}

func TestPrizeValue(t *testing.T) {
	assert.Equal(t, 50_000_000.0, PrizeValue(6, MegaSena))
	assert.Equal(t, 50_000.0, PrizeValue(5, MegaSena))
	assert.Equal(t, 1_000.0, PrizeValue(4, MegaSena))
	assert.Zero(t, PrizeValue(3, MegaSena))
	assert.Zero(t, PrizeValue(0, MegaSena))
	assert.Zero(t, PrizeValue(8, MegaSena), "sums above a tier have no prize of their own")
	assert.Zero(t, PrizeValue(6, "unknown"))
}

func TestMatcher_CheckTicket(t *testing.T) {
	m, err := NewMatcher(MegaSena)
	require.NoError(t, err)

	res := m.CheckTicket("t1", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, []int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 6, res.TotalHits)
	assert.Equal(t, 50_000_000.0, res.Prize)

	_, err = NewMatcher("quina")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestSummarizeBatch(t *testing.T) {
	summary, err := SummarizeBatch([]TicketResult{
		{TicketID: "a", TotalHits: 2},
		{TicketID: "b", TotalHits: 5, Prize: 50_000},
		{TicketID: "c", TotalHits: 4, Prize: 1_000},
		{TicketID: "d", TotalHits: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{MaxHits: 5, PrizeWinners: 2, TotalPrize: 51_000}, summary)

	_, err = SummarizeBatch(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
