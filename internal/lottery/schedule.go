package lottery

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MaxScanDays bounds the forward and backward draw date search. It has to be
// longer than the widest gap between two draw weekdays, which is at most 7.
const MaxScanDays = 14

// Clock reports the current instant. The schedule only uses its calendar date.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

type Schedule struct {
	cfg    VariantConfig
	clock  Clock
	logger zerolog.Logger
}

type ScheduleOption func(*Schedule)

func WithClock(c Clock) ScheduleOption {
	return func(s *Schedule) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewSchedule(v Variant, logger zerolog.Logger, opts ...ScheduleOption) (*Schedule, error) {
	cfg, err := Lookup(v)
	if err != nil {
		return nil, err
	}

	s := &Schedule{
		cfg:    cfg,
		clock:  SystemClock(nil),
		logger: logger.With().Str("variant", string(v)).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Schedule) Variant() Variant {
	return s.cfg.Variant
}

func (s *Schedule) Today() Date {
	return DateOf(s.clock())
}

// IsValidDrawDate never fails: unparsable input is logged and treated as not
// a draw date.
func (s *Schedule) IsValidDrawDate(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("cannot check draw date")
		return false
	}
	return s.IsDrawDay(d)
}

func (s *Schedule) IsDrawDay(d Date) bool {
	return s.cfg.drawsOn(d.Weekday())
}

// NextDrawDate returns from itself when it is a draw day, otherwise the first
// draw day after it. If nothing matches within MaxScanDays it returns from
// and false; callers must not treat that date as a draw day.
func (s *Schedule) NextDrawDate(from Date) (Date, bool) {
	return s.scan(from, 1)
}

func (s *Schedule) PreviousDrawDate(from Date) (Date, bool) {
	return s.scan(from, -1)
}

func (s *Schedule) NextDrawDateFromToday() (Date, bool) {
	return s.NextDrawDate(s.Today())
}

func (s *Schedule) PreviousDrawDateFromToday() (Date, bool) {
	return s.PreviousDrawDate(s.Today())
}

func (s *Schedule) scan(from Date, step int) (Date, bool) {
	for i := 0; i <= MaxScanDays; i++ {
		d := from.AddDays(i * step)
		if s.IsDrawDay(d) {
			return d, true
		}
	}

	s.logger.Error().
		Str("from", from.String()).
		Int("step", step).
		Int("max_scan_days", MaxScanDays).
		Msg("no draw date found in scan window")
	return from, false
}

// DrawDatesInMonth lists the draw days of a month (1-12) in ascending order.
func (s *Schedule) DrawDatesInMonth(year int, month time.Month) []Date {
	dates := []Date{}
	if month < time.January || month > time.December {
		return dates
	}

	for day := 1; day <= daysIn(year, month); day++ {
		d := Date{Year: year, Month: month, Day: day}
		if s.IsDrawDay(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

var weekdayPlurals = [7]string{
	time.Sunday:    "domingos",
	time.Monday:    "segundas",
	time.Tuesday:   "terças",
	time.Wednesday: "quartas",
	time.Thursday:  "quintas",
	time.Friday:    "sextas",
	time.Saturday:  "sábados",
}

// Description renders e.g. "sorteios às terças, quintas e sábados".
func (s *Schedule) Description() string {
	days := make([]time.Weekday, len(s.cfg.DrawWeekdays))
	copy(days, s.cfg.DrawWeekdays)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, weekdayPlurals[d])
	}
	return "sorteios às " + joinPortuguese(names)
}

func joinPortuguese(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
}
