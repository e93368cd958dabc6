package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/scoring"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL}, nil)
}

func writeSuccess(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	env, err := backend.NewSuccess(data, "")
	if err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		t.Fatalf("write envelope: %v", err)
	}
}

func TestSubmitDiagnostic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/diagnostic/submit/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			UserID  string                     `json:"user_id"`
			Answers []scoring.DiagnosticAnswer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.UserID != "u1" || len(body.Answers) != 1 {
			t.Errorf("unexpected body: %+v", body)
		}
		writeSuccess(t, w, backend.SubmitResult{
			DiagnosticID: "d1",
			Count:        1,
			Diagnostics:  body.Answers,
		})
	})

	answers := []scoring.DiagnosticAnswer{{Subject: "math", Question: "q", Score: 1.0, IsExactMatch: true}}
	res, err := c.SubmitDiagnostic(context.Background(), "u1", answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DiagnosticID != "d1" || res.Count != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAnalyzePerformance_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(backend.NewError("no academic performance data found"))
	})

	_, err := c.AnalyzePerformance(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error")
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %T", err)
	}
	if be.Message != "no academic performance data found" {
		t.Errorf("message = %q", be.Message)
	}
}

func TestGeneratePlan(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate/study-plan/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeSuccess(t, w, map[string]any{
			"id":      "p1",
			"user_id": "u1",
			"subject": "math",
			"week_plan": map[string]any{
				"week_1": map[string]any{"week_number": 1, "focus": "algebra"},
			},
			"daily_tasks": map[string]any{},
			"status":      "active",
			"created_at":  time.Now().UTC().Format(time.RFC3339),
		})
	})

	plan, err := c.GeneratePlan(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID != "p1" || !plan.IsSubstantive() {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

func TestListPlans_QueryParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/study-plans/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "u1" || q.Get("subject") != "math" {
			t.Errorf("query = %v", q)
		}
		writeSuccess(t, w, map[string]any{
			"study_plans": []map[string]any{
				{"id": "p2", "user_id": "u1", "subject": "math", "status": "active"},
				{"id": "p1", "user_id": "u1", "subject": "math", "status": "active"},
			},
		})
	})

	got, err := c.ListPlans(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p2" {
		t.Errorf("unexpected plans: %+v", got)
	}
}

func TestDeletePlan(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/study-plans/delete/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeSuccess(t, w, map[string]string{"status": "deleted"})
	})

	if err := c.DeletePlan(context.Background(), "p1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTutorChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(t, w, map[string]any{
			"response":   "A derivative measures rate of change.",
			"session_id": "s1",
			"chat_history": []map[string]string{
				{"role": "user", "content": "what is a derivative?"},
				{"role": "assistant", "content": "A derivative measures rate of change."},
			},
		})
	})

	res, err := c.TutorChat(context.Background(), "u1", "math", "what is a derivative?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SessionID != "s1" || len(res.History) != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDo_NonEnvelopeBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	})

	_, err := c.GetProgress(context.Background(), "u1", "math")
	if err == nil {
		t.Fatal("expected error")
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %T", err)
	}
}

func TestDo_ErrorWithoutMessageIsProtocolViolation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error"}`))
	})

	_, err := c.AnalyzePerformance(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_Timeouts(t *testing.T) {
	c := New(Config{BaseURL: "http://example.test/"}, nil)
	if c.reqTO != defaultRequestTimeout {
		t.Errorf("reqTO = %v", c.reqTO)
	}
	if c.genTO != defaultGenerateTimeout {
		t.Errorf("genTO = %v", c.genTO)
	}
	if c.base != "http://example.test" {
		t.Errorf("base URL not trimmed: %q", c.base)
	}

	// Generation timeouts below the default are raised to it.
	c = New(Config{BaseURL: "http://example.test", GenerateTimeout: 5 * time.Second}, nil)
	if c.genTO != defaultGenerateTimeout {
		t.Errorf("genTO = %v, want %v", c.genTO, defaultGenerateTimeout)
	}

	c = New(Config{BaseURL: "http://example.test", GenerateTimeout: 10 * time.Minute}, nil)
	if c.genTO != 10*time.Minute {
		t.Errorf("genTO = %v, want 10m", c.genTO)
	}
}
