package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bolao/internal/lottery"
	"bolao/internal/metrics"
	"bolao/internal/middleware"
	"bolao/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type BolaoServer struct {
	schedules *service.ScheduleService
	draws     *service.DrawService
	pools     *service.PoolService
	results   *service.ResultService
	logger    zerolog.Logger
}

func NewBolaoServer(schedules *service.ScheduleService, draws *service.DrawService, pools *service.PoolService, results *service.ResultService, logger zerolog.Logger) *BolaoServer {
	return &BolaoServer{schedules: schedules, draws: draws, pools: pools, results: results, logger: logger}
}

func (s *BolaoServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/lotteries", s.listLotteries)
		r.Route("/lotteries/{variant}", func(r chi.Router) {
			r.Get("/schedule/check", s.checkDrawDate)
			r.Get("/schedule/next", s.nextDrawDate)
			r.Get("/schedule/previous", s.previousDrawDate)
			r.Get("/schedule/month", s.drawDatesInMonth)
			r.Get("/draws/latest", s.latestDraw)
			r.Get("/draws/{number}", s.getDraw)
		})

		r.Route("/pools", func(r chi.Router) {
			r.Post("/", s.createPool)
			r.Get("/", s.listPools)
			r.Route("/{poolID}", func(r chi.Router) {
				r.Get("/", s.getPool)
				r.Post("/participants", s.addParticipant)
				r.Put("/participants/{participantID}/payment", s.setPayment)
				r.Post("/tickets", s.addTickets)
				r.Get("/tickets", s.listTickets)
				r.Get("/results", s.poolResults)
			})
		})
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeError maps service errors to status codes. Draw source failures get a
// 502 so clients can tell them apart from a report with zero hits.
func (s *BolaoServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, lottery.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, lottery.ErrUnknownVariant),
		errors.Is(err, service.ErrPoolNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrDrawNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDrawUnavailable):
		status = http.StatusBadGateway
	}

	log := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
