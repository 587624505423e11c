package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bolao/internal/domain"
	"bolao/internal/lottery"
	"bolao/internal/service"

	"github.com/go-chi/chi/v5"
)

type drawDateResponse struct {
	Variant lottery.Variant `json:"variant"`
	Date    lottery.Date    `json:"date"`
	Found   bool            `json:"found"`
}

type drawResponse struct {
	Variant            lottery.Variant    `json:"variant"`
	DrawNumber         int                `json:"draw_number"`
	Date               lottery.Date       `json:"date"`
	Numbers            []int              `json:"numbers"`
	Accumulated        bool               `json:"accumulated"`
	PrizeTiers         []domain.PrizeTier `json:"prize_tiers"`
	NextDrawDate       lottery.Date       `json:"next_draw_date"`
	NextEstimatedPrize float64            `json:"next_estimated_prize"`
}

func (s *BolaoServer) listLotteries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schedules.Variants())
}

func (s *BolaoServer) schedule(r *http.Request) (*lottery.Schedule, error) {
	return s.schedules.Schedule(lottery.Variant(chi.URLParam(r, "variant")))
}

// checkDrawDate answers false for unparsable dates instead of failing.
func (s *BolaoServer) checkDrawDate(w http.ResponseWriter, r *http.Request) {
	sched, err := s.schedule(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	date := r.URL.Query().Get("date")
	writeJSON(w, http.StatusOK, map[string]any{
		"variant": sched.Variant(),
		"date":    date,
		"valid":   sched.IsValidDrawDate(date),
	})
}

func (s *BolaoServer) nextDrawDate(w http.ResponseWriter, r *http.Request) {
	s.scanDrawDate(w, r, (*lottery.Schedule).NextDrawDate)
}

func (s *BolaoServer) previousDrawDate(w http.ResponseWriter, r *http.Request) {
	s.scanDrawDate(w, r, (*lottery.Schedule).PreviousDrawDate)
}

func (s *BolaoServer) scanDrawDate(w http.ResponseWriter, r *http.Request, scan func(*lottery.Schedule, lottery.Date) (lottery.Date, bool)) {
	sched, err := s.schedule(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	from := sched.Today()
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = lottery.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	date, found := scan(sched, from)
	writeJSON(w, http.StatusOK, drawDateResponse{Variant: sched.Variant(), Date: date, Found: found})
}

func (s *BolaoServer) drawDatesInMonth(w http.ResponseWriter, r *http.Request) {
	sched, err := s.schedule(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	today := sched.Today()
	year, month := today.Year, int(today.Month)
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: year %q", service.ErrInvalidInput, raw))
			return
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			s.writeError(w, r, fmt.Errorf("%w: month %q", service.ErrInvalidInput, raw))
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variant": sched.Variant(),
		"year":    year,
		"month":   month,
		"dates":   sched.DrawDatesInMonth(year, time.Month(month)),
	})
}

func (s *BolaoServer) latestDraw(w http.ResponseWriter, r *http.Request) {
	draw, err := s.draws.Latest(r.Context(), lottery.Variant(chi.URLParam(r, "variant")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDrawResponse(draw))
}

func (s *BolaoServer) getDraw(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: draw number %q", service.ErrInvalidInput, chi.URLParam(r, "number")))
		return
	}

	draw, err := s.draws.Get(r.Context(), lottery.Variant(chi.URLParam(r, "variant")), number)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDrawResponse(draw))
}

func toDrawResponse(d *domain.DrawResult) drawResponse {
	tiers := d.PrizeTiers
	if tiers == nil {
		tiers = []domain.PrizeTier{}
	}
	return drawResponse{
		Variant:            d.Variant,
		DrawNumber:         d.DrawNumber,
		Date:               d.Date,
		Numbers:            d.Numbers,
		Accumulated:        d.Accumulated,
		PrizeTiers:         tiers,
		NextDrawDate:       d.NextDrawDate,
		NextEstimatedPrize: d.NextEstimatedPrize,
	}
}
