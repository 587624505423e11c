package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"bolao/internal/config"
	"bolao/internal/lottery"

	"github.com/valyala/fasthttp"
)

var ErrDrawNotPublished = errors.New("draw not published")

// CaixaClient reads official results from the Caixa lottery portal API.
type CaixaClient struct {
	baseURL string
	client  *fasthttp.Client

	statsMu sync.RWMutex
	stats   RequestStats
}

type RequestStats struct {
	Requests   int       `json:"requests"`
	Failures   int       `json:"failures"`
	LastStatus int       `json:"last_status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewCaixaClient(cfg *config.Config) *CaixaClient {
	return newCaixaClient(cfg.DrawsAPIURL)
}

func newCaixaClient(baseURL string) *CaixaClient {
	return &CaixaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &fasthttp.Client{
			Name:                "bolao",
			MaxConnsPerHost:     16,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *CaixaClient) Stats() RequestStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *CaixaClient) record(status int, failed bool) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	c.stats.Requests++
	if failed {
		c.stats.Failures++
	}
	c.stats.LastStatus = status
	c.stats.UpdatedAt = time.Now()
}

func (c *CaixaClient) GetLatest(ctx context.Context, variant lottery.Variant) (*DrawResponse, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, variant)
	return doRequest[DrawResponse](ctx, c, url)
}

func (c *CaixaClient) GetDraw(ctx context.Context, variant lottery.Variant, drawNumber int) (*DrawResponse, error) {
	url := fmt.Sprintf("%s/%s/%d", c.baseURL, variant, drawNumber)
	return doRequest[DrawResponse](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *CaixaClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.Do(req, resp)
	}
	if err != nil {
		client.record(0, true)
		return nil, err
	}

	status := resp.StatusCode()
	client.record(status, status != fasthttp.StatusOK)

	switch status {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound, fasthttp.StatusNoContent:
		return nil, fmt.Errorf("%w: %s", ErrDrawNotPublished, url)
	default:
		return nil, fmt.Errorf("API error: %d", status)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return &result, nil
}

type DrawResponse struct {
	Numero                       int           `json:"numero"`
	DataApuracao                 string        `json:"dataApuracao"`
	ListaDezenas                 []string      `json:"listaDezenas"`
	Acumulado                    bool          `json:"acumulado"`
	ListaRateioPremio            []PrizeRating `json:"listaRateioPremio"`
	DataProximoConcurso          string        `json:"dataProximoConcurso"`
	ValorEstimadoProximoConcurso float64       `json:"valorEstimadoProximoConcurso"`
	NumeroConcursoProximo        int           `json:"numeroConcursoProximo"`
}

type PrizeRating struct {
	DescricaoFaixa     string  `json:"descricaoFaixa"`
	Faixa              int     `json:"faixa"`
	NumeroDeGanhadores int     `json:"numeroDeGanhadores"`
	ValorPremio        float64 `json:"valorPremio"`
}

// Numbers converts the zero-padded "dezenas" into ints.
func (r *DrawResponse) Numbers() ([]int, error) {
	out := make([]int, 0, len(r.ListaDezenas))
	for _, s := range r.ListaDezenas {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("bad drawn number %q: %w", s, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *DrawResponse) Date() (lottery.Date, error) {
	return ParseBrazilianDate(r.DataApuracao)
}

func (r *DrawResponse) NextDate() (lottery.Date, error) {
	return ParseBrazilianDate(r.DataProximoConcurso)
}

// Hits reads the hit count from labels like "6 acertos". Zero means the label
// carries no count.
func (p PrizeRating) Hits() int {
	fields := strings.Fields(p.DescricaoFaixa)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// ParseBrazilianDate reads dd/mm/yyyy into a calendar date.
func ParseBrazilianDate(s string) (lottery.Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return lottery.Date{}, fmt.Errorf("%w: %q", lottery.ErrInvalidDate, s)
	}
	return lottery.ParseDate(parts[2] + "-" + parts[1] + "-" + parts[0])
}
