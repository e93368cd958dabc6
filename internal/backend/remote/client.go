// Package remote implements the backend contract over HTTP against a
// collaborator server speaking the {status, data, message} envelope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/plans"
	"github.com/sevisconnect/edcore/internal/progress"
	"github.com/sevisconnect/edcore/internal/scoring"
)

// Config holds remote client settings.
type Config struct {
	// BaseURL is the server root, e.g. "https://api.example.edu".
	BaseURL string
	// RequestTimeout bounds scoring, listing, and chat calls. Default 30s.
	RequestTimeout time.Duration
	// GenerateTimeout bounds plan generation, which runs 60-90s in practice
	// and needs a generous bound. Default 120s; values below the default
	// are raised to it.
	GenerateTimeout time.Duration
	// HTTPClient optionally overrides the transport.
	HTTPClient *http.Client
}

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultGenerateTimeout = 120 * time.Second
)

// Client is the HTTP implementation of backend.Service.
type Client struct {
	base  string
	http  *http.Client
	log   *zap.Logger
	reqTO time.Duration
	genTO time.Duration
}

// New creates a remote client. The returned client is safe for concurrent use.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	reqTO := cfg.RequestTimeout
	if reqTO <= 0 {
		reqTO = defaultRequestTimeout
	}
	genTO := cfg.GenerateTimeout
	if genTO < defaultGenerateTimeout {
		genTO = defaultGenerateTimeout
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		http:  hc,
		log:   log,
		reqTO: reqTO,
		genTO: genTO,
	}
}

var _ backend.Service = (*Client)(nil)

func (c *Client) SubmitDiagnostic(ctx context.Context, userID string, answers []scoring.DiagnosticAnswer) (*backend.SubmitResult, error) {
	body := map[string]any{"user_id": userID, "answers": answers}
	var out backend.SubmitResult
	if err := c.post(ctx, "submit diagnostic", "/api/diagnostic/submit/", body, c.reqTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyzePerformance(ctx context.Context, userID string) (*backend.AnalysisResult, error) {
	body := map[string]any{"user_id": userID}
	var out backend.AnalysisResult
	if err := c.post(ctx, "analyze performance", "/api/analyze/performance/", body, c.reqTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GeneratePlan(ctx context.Context, userID, subject string) (*plans.StudyPlan, error) {
	body := map[string]any{"user_id": userID, "subject": subject}
	var out plans.StudyPlan
	if err := c.post(ctx, "generate plan", "/api/generate/study-plan/", body, c.genTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPlans(ctx context.Context, userID, subject string) ([]*plans.StudyPlan, error) {
	q := url.Values{"user_id": {userID}, "subject": {subject}}
	var out struct {
		StudyPlans []*plans.StudyPlan `json:"study_plans"`
	}
	if err := c.get(ctx, "list plans", "/api/study-plans/", q, &out); err != nil {
		return nil, err
	}
	return out.StudyPlans, nil
}

func (c *Client) DeletePlan(ctx context.Context, planID, userID string) error {
	body := map[string]any{"plan_id": planID, "user_id": userID}
	var out struct {
		Status string `json:"status"`
	}
	return c.post(ctx, "delete plan", "/api/study-plans/delete/", body, c.reqTO, &out)
}

func (c *Client) TutorChat(ctx context.Context, userID, subject, message string) (*backend.TutorChatResult, error) {
	body := map[string]any{"user_id": userID, "subject": subject, "message": message}
	var out backend.TutorChatResult
	if err := c.post(ctx, "tutor chat", "/api/tutor/chat/", body, c.reqTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProgress(ctx context.Context, userID, subject string) ([]progress.Record, error) {
	q := url.Values{"user_id": {userID}}
	if subject != "" {
		q.Set("subject", subject)
	}
	var out []progress.Record
	if err := c.get(ctx, "get progress", "/api/progress/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, op, path string, body any, timeout time.Duration, into any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &backend.Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return &backend.Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, into)
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, into any) error {
	ctx, cancel := context.WithTimeout(ctx, c.reqTO)
	defer cancel()

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &backend.Error{Op: op, Err: err}
	}

	return c.do(op, req, into)
}

func (c *Client) do(op string, req *http.Request, into any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &backend.Error{Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &backend.Error{Op: op, Message: "read response", Err: err}
	}

	c.log.Debug("collaborator call",
		zap.String("op", op),
		zap.Int("http_status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	env, err := backend.DecodeEnvelope(raw)
	if err != nil {
		return &backend.Error{Op: op, Message: fmt.Sprintf("unexpected response (HTTP %d)", resp.StatusCode), Err: err}
	}
	if env.Status == backend.StatusError {
		return &backend.Error{Op: op, Message: env.Message}
	}
	if into == nil {
		return nil
	}
	if err := env.DecodeData(into); err != nil {
		return &backend.Error{Op: op, Message: "malformed response payload", Err: err}
	}
	return nil
}
