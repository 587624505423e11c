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

type poolResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Variant    lottery.Variant `json:"variant"`
	DrawDate   lottery.Date    `json:"draw_date"`
	DrawNumber int             `json:"draw_number,omitempty"`
	QuotaPrice float64         `json:"quota_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

type participantResponse struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Quotas int        `json:"quotas"`
	Paid   bool       `json:"paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

type totalsResponse struct {
	Participants int     `json:"participants"`
	Quotas       int     `json:"quotas"`
	PaidQuotas   int     `json:"paid_quotas"`
	Collected    float64 `json:"collected"`
	Pending      float64 `json:"pending"`
}

type poolDetailsResponse struct {
	poolResponse
	Participants []participantResponse `json:"participants"`
	Totals       totalsResponse        `json:"totals"`
}

type ticketResponse struct {
	ID        string    `json:"id"`
	Numbers   []int     `json:"numbers"`
	CreatedAt time.Time `json:"created_at"`
}

type shareResponse struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	Quotas        int     `json:"quotas"`
	Paid          bool    `json:"paid"`
	Amount        float64 `json:"amount"`
}

type reportResponse struct {
	Pool    poolResponse           `json:"pool"`
	Draw    drawResponse           `json:"draw"`
	Results []lottery.TicketResult `json:"results"`
	Summary lottery.BatchSummary   `json:"summary"`
	Shares  []shareResponse        `json:"shares"`
}

type paymentRequest struct {
	Paid bool `json:"paid"`
}

func (s *BolaoServer) createPool(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePoolInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	pool, err := s.pools.CreatePool(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPoolResponse(pool))
}

func (s *BolaoServer) listPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.ListPools(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]poolResponse, 0, len(pools))
	for i := range pools {
		resp = append(resp, toPoolResponse(&pools[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *BolaoServer) getPool(w http.ResponseWriter, r *http.Request) {
	details, err := s.pools.GetPool(r.Context(), chi.URLParam(r, "poolID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	participants := make([]participantResponse, 0, len(details.Participants))
	for _, p := range details.Participants {
		participants = append(participants, toParticipantResponse(&p))
	}

	t := details.Totals
	writeJSON(w, http.StatusOK, poolDetailsResponse{
		poolResponse: toPoolResponse(&details.Pool),
		Participants: participants,
		Totals: totalsResponse{
			Participants: t.Participants,
			Quotas:       t.Quotas,
			PaidQuotas:   t.PaidQuotas,
			Collected:    t.Collected,
			Pending:      t.Pending,
		},
	})
}

func (s *BolaoServer) addParticipant(w http.ResponseWriter, r *http.Request) {
	var in service.AddParticipantInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	p, err := s.pools.AddParticipant(r.Context(), chi.URLParam(r, "poolID"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipantResponse(p))
}

func (s *BolaoServer) setPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	err := s.pools.SetPayment(r.Context(), chi.URLParam(r, "poolID"), chi.URLParam(r, "participantID"), req.Paid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *BolaoServer) addTickets(w http.ResponseWriter, r *http.Request) {
	var in service.AddTicketsInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	tickets, err := s.pools.AddTickets(r.Context(), chi.URLParam(r, "poolID"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTicketResponses(tickets))
}

func (s *BolaoServer) listTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.pools.ListTickets(r.Context(), chi.URLParam(r, "poolID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponses(tickets))
}

// poolResults checks the pool's tickets against ?draw=N, or against the draw
// for the pool's date when no number is given.
func (s *BolaoServer) poolResults(w http.ResponseWriter, r *http.Request) {
	var drawNumber int
	if raw := r.URL.Query().Get("draw"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: draw number %q", service.ErrInvalidInput, raw))
			return
		}
		drawNumber = n
	}

	report, err := s.results.Check(r.Context(), chi.URLParam(r, "poolID"), drawNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	shares := make([]shareResponse, 0, len(report.Shares))
	for _, sh := range report.Shares {
		shares = append(shares, shareResponse(sh))
	}
	results := report.Results
	if results == nil {
		results = []lottery.TicketResult{}
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Pool:    toPoolResponse(&report.Pool),
		Draw:    toDrawResponse(&report.Draw),
		Results: results,
		Summary: report.Summary,
		Shares:  shares,
	})
}

func toPoolResponse(p *domain.Pool) poolResponse {
	return poolResponse{
		ID:         p.ID,
		Name:       p.Name,
		Variant:    p.Variant,
		DrawDate:   p.DrawDate,
		DrawNumber: p.DrawNumber,
		QuotaPrice: p.QuotaPrice,
		CreatedAt:  p.CreatedAt,
	}
}

func toParticipantResponse(p *domain.Participant) participantResponse {
	return participantResponse{
		ID:     p.ID,
		Name:   p.Name,
		Quotas: p.Quotas,
		Paid:   p.Paid,
		PaidAt: p.PaidAt,
	}
}

func toTicketResponses(tickets []domain.Ticket) []ticketResponse {
	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ticketResponse{ID: t.ID, Numbers: t.Numbers, CreatedAt: t.CreatedAt})
	}
	return resp
}
