package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"scamtrap/internal/config"
	"scamtrap/internal/models"
)

func newTestRelay(t *testing.T, handler http.HandlerFunc) (*Relay, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	r := New(config.UpstreamConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	return r, server
}

func completionResponse(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return body
}

func TestEvaluateSuccess(t *testing.T) {
	var captured chatRequest
	r, _ := newTestRelay(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write(completionResponse(`{"scam_detected":true,"scam_confidence":0.9,"persona_response":"Which bank did you say?","conversation_status":"engaging"}`))
	})

	history := []Turn{
		{Role: models.RoleScammer, Content: "Your account is blocked, share your OTP."},
		{Role: models.RoleHoneypot, Content: "Oh no! What do I do?"},
		{Role: models.RoleScammer, Content: "Send Rs 5000 to unblock."},
	}
	res, err := r.Evaluate(context.Background(), history, models.ScamTypeBanking)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.ScamDetected || res.PersonaResponse != "Which bank did you say?" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if captured.Model != "test-model" {
		t.Fatalf("unexpected model %q", captured.Model)
	}
	if captured.Temperature != 0.7 || captured.MaxTokens != 1024 {
		t.Fatalf("unexpected sampling params: %+v", captured)
	}
	if len(captured.Messages) != len(history)+1 {
		t.Fatalf("expected %d messages, got %d", len(history)+1, len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Fatalf("first message should be system, got %q", captured.Messages[0].Role)
	}
	if !strings.Contains(captured.Messages[0].Content, "banking scam scenario") {
		t.Fatalf("system prompt missing scam type context")
	}
	wantRoles := []string{"user", "assistant", "user"}
	for i, want := range wantRoles {
		if captured.Messages[i+1].Role != want {
			t.Fatalf("message %d role = %q, want %q", i+1, captured.Messages[i+1].Role, want)
		}
	}
}

func TestEvaluateEmptyHistory(t *testing.T) {
	r := New(config.UpstreamConfig{BaseURL: "http://unused", APIKey: "k"})
	if _, err := r.Evaluate(context.Background(), nil, ""); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
}

func TestEvaluateInvalidScamType(t *testing.T) {
	r := New(config.UpstreamConfig{BaseURL: "http://unused", APIKey: "k"})
	history := []Turn{{Role: models.RoleScammer, Content: "hi"}}
	if _, err := r.Evaluate(context.Background(), history, "romance"); !errors.Is(err, ErrInvalidScamType) {
		t.Fatalf("expected ErrInvalidScamType, got %v", err)
	}
}

func TestEvaluateRateLimited(t *testing.T) {
	r, _ := newTestRelay(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	history := []Turn{{Role: models.RoleScammer, Content: "hi"}}
	if _, err := r.Evaluate(context.Background(), history, ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestEvaluateQuotaExceeded(t *testing.T) {
	r, _ := newTestRelay(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	history := []Turn{{Role: models.RoleScammer, Content: "hi"}}
	if _, err := r.Evaluate(context.Background(), history, ""); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestEvaluateUpstreamError(t *testing.T) {
	r, _ := newTestRelay(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("gateway down"))
	})
	history := []Turn{{Role: models.RoleScammer, Content: "hi"}}
	_, err := r.Evaluate(context.Background(), history, "")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusBadGateway || upstream.Body != "gateway down" {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestEvaluateGarbageOutputFallsBack(t *testing.T) {
	r, _ := newTestRelay(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write(completionResponse("Sorry, I refuse to answer in JSON today."))
	})
	history := []Turn{{Role: models.RoleScammer, Content: "hi"}}
	res, err := r.Evaluate(context.Background(), history, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !reflect.DeepEqual(res, FallbackResult()) {
		t.Fatalf("expected fallback result, got %+v", res)
	}
}

func TestBuildSystemPromptOmitsContextWithoutType(t *testing.T) {
	plain := buildSystemPrompt("")
	if strings.Contains(plain, "[Context:") {
		t.Fatalf("unexpected context suffix without scam type")
	}
	withType := buildSystemPrompt(models.ScamTypePrize)
	if !strings.HasSuffix(withType, "[Context: This is a prize scam scenario. Analyze and respond accordingly.]") {
		t.Fatalf("missing context suffix: %q", withType[len(withType)-80:])
	}
}
