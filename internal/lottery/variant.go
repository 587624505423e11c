// Package lottery holds the draw schedule calculator and the ticket result
// matcher. Everything here is pure: no I/O and no shared mutable state.
package lottery

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"
)

type Variant string

const (
	MegaSena Variant = "megasena"
)

var (
	ErrUnknownVariant = errors.New("unknown lottery variant")
	ErrInvalidDate    = errors.New("invalid calendar date")
	ErrEmptyBatch     = errors.New("empty ticket batch")
	ErrInvalidTicket  = errors.New("invalid ticket")
)

type NumberRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r NumberRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

type VariantConfig struct {
	Variant        Variant
	Name           string
	DrawWeekdays   []time.Weekday
	NumbersPerGame int
	NumberRange    NumberRange

	// prize per exact total hit count, in BRL
	PrizeTable map[int]float64
}

// variants is the only place a lottery is described. Adding a lottery means
// adding a row here.
var variants = map[Variant]VariantConfig{
	MegaSena: {
		Variant:        MegaSena,
		Name:           "Mega-Sena",
		DrawWeekdays:   []time.Weekday{time.Tuesday, time.Thursday, time.Saturday},
		NumbersPerGame: 6,
		NumberRange:    NumberRange{Min: 1, Max: 60},
		PrizeTable: map[int]float64{
			6: 50_000_000,
			5: 50_000,
			4: 1_000,
		},
	},
}

// Lookup returns a copy of the variant's configuration; callers may modify it.
func Lookup(v Variant) (VariantConfig, error) {
	cfg, ok := variants[v]
	if !ok {
		return VariantConfig{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	cfg.DrawWeekdays = slices.Clone(cfg.DrawWeekdays)
	cfg.PrizeTable = maps.Clone(cfg.PrizeTable)
	return cfg, nil
}

// Variants returns every configured variant in name order.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidateTicket is the strict check used when a ticket is registered.
// Matching never calls it and tolerates whatever is already stored.
func (c VariantConfig) ValidateTicket(numbers []int) error {
	if len(numbers) == 0 || len(numbers)%c.NumbersPerGame != 0 {
		return fmt.Errorf("%w: %d numbers is not a multiple of %d", ErrInvalidTicket, len(numbers), c.NumbersPerGame)
	}

	for _, g := range SplitIntoGames(numbers, c.NumbersPerGame) {
		seen := make(map[int]bool, len(g.Numbers))
		for _, n := range g.Numbers {
			if !c.NumberRange.Contains(n) {
				return fmt.Errorf("%w: game %d has %d outside %d-%d", ErrInvalidTicket, g.Index, n, c.NumberRange.Min, c.NumberRange.Max)
			}
			if seen[n] {
				return fmt.Errorf("%w: game %d repeats %d", ErrInvalidTicket, g.Index, n)
			}
			seen[n] = true
		}
	}
	return nil
}

func (c VariantConfig) drawsOn(wd time.Weekday) bool {
	for _, d := range c.DrawWeekdays {
		if d == wd {
			return true
		}
	}
	return false
}
