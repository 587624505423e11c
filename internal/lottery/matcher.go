package lottery

type Game struct {
	Index   int   `json:"index"`
	Numbers []int `json:"numbers"`
}

type GameResult struct {
	Index          int   `json:"index"`
	Numbers        []int `json:"numbers"`
	Hits           int   `json:"hits"`
	MatchedNumbers []int `json:"matched_numbers"`
}

type TicketResult struct {
	TicketID  string       `json:"ticket_id"`
	Games     []GameResult `json:"games"`
	TotalHits int          `json:"total_hits"`
	Prize     float64      `json:"prize"`
}

type BatchSummary struct {
	MaxHits      int     `json:"max_hits"`
	PrizeWinners int     `json:"prize_winners"`
	TotalPrize   float64 `json:"total_prize"`
}

// SplitIntoGames cuts numbers into consecutive games of perGame numbers. A
// trailing partial game is dropped.
func SplitIntoGames(numbers []int, perGame int) []Game {
	if perGame <= 0 {
		return nil
	}

	games := make([]Game, 0, len(numbers)/perGame)
	for start := 0; start+perGame <= len(numbers); start += perGame {
		chunk := make([]int, perGame)
		copy(chunk, numbers[start:start+perGame])
		games = append(games, Game{Index: len(games), Numbers: chunk})
	}
	return games
}

// MatchGame keeps the game's order for matched numbers. Every occurrence of a
// drawn value in the game counts, repeats included.
func MatchGame(game Game, drawn []int) GameResult {
	inDraw := make(map[int]struct{}, len(drawn))
	for _, n := range drawn {
		inDraw[n] = struct{}{}
	}

	matched := []int{}
	for _, n := range game.Numbers {
		if _, ok := inDraw[n]; ok {
			matched = append(matched, n)
		}
	}

	return GameResult{
		Index:          game.Index,
		Numbers:        game.Numbers,
		Hits:           len(matched),
		MatchedNumbers: matched,
	}
}

// MatchTicket sums hits over all games of the ticket. It is a sum, not the
// best game: two games with 4 hits each give TotalHits 8.
func MatchTicket(ticketID string, numbers, drawn []int, perGame int) TicketResult {
	games := SplitIntoGames(numbers, perGame)

	result := TicketResult{
		TicketID: ticketID,
		Games:    make([]GameResult, 0, len(games)),
	}
	for _, g := range games {
		gr := MatchGame(g, drawn)
		result.Games = append(result.Games, gr)
		result.TotalHits += gr.Hits
	}
	return result
}

// PrizeValue looks the exact hit count up in the variant's static prize table.
// Unknown variants and hit counts without a tier are worth zero.
func PrizeValue(totalHits int, v Variant) float64 {
	cfg, ok := variants[v]
	if !ok {
		return 0
	}
	return cfg.PrizeTable[totalHits]
}

// SummarizeBatch needs at least one result.
func SummarizeBatch(results []TicketResult) (BatchSummary, error) {
	if len(results) == 0 {
		return BatchSummary{}, ErrEmptyBatch
	}

	summary := BatchSummary{MaxHits: results[0].TotalHits}
	for _, r := range results {
		if r.TotalHits > summary.MaxHits {
			summary.MaxHits = r.TotalHits
		}
		if r.Prize > 0 {
			summary.PrizeWinners++
		}
		summary.TotalPrize += r.Prize
	}
	return summary, nil
}

// Matcher binds matching and prize lookup to one variant.
type Matcher struct {
	cfg VariantConfig
}

func NewMatcher(v Variant) (*Matcher, error) {
	cfg, err := Lookup(v)
	if err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg}, nil
}

func (m *Matcher) Config() VariantConfig {
	return m.cfg
}

func (m *Matcher) CheckTicket(ticketID string, numbers, drawn []int) TicketResult {
	result := MatchTicket(ticketID, numbers, drawn, m.cfg.NumbersPerGame)
	result.Prize = PrizeValue(result.TotalHits, m.cfg.Variant)
	return result
}
