package apiserver

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zkprover/keyless-prover/internal/apperror"
	"github.com/zkprover/keyless-prover/internal/config"
	"github.com/zkprover/keyless-prover/internal/inputproc"
	"github.com/zkprover/keyless-prover/internal/proverstate"
)

type recordingLogger struct {
	warnCalls  int
	errorCalls int
}

func (l *recordingLogger) Debug(msg string, args ...any) {}
func (l *recordingLogger) Info(msg string, args ...any)  {}
func (l *recordingLogger) Warn(msg string, args ...any)  { l.warnCalls++ }
func (l *recordingLogger) Error(msg string, args ...any) { l.errorCalls++ }

func TestHandleHealthcheck(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	s.HandleHealthcheck(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != "OK" {
		t.Fatalf("body = %q, want %q", got, "OK")
	}
}

func TestHandleFallback(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	s.HandleFallback(w, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if got := w.Body.String(); got != "Invalid route" {
		t.Fatalf("body = %q, want %q", got, "Invalid route")
	}
}

func TestRespondErrorBadRequestLogsAsWarn(t *testing.T) {
	log := &recordingLogger{}
	s := &Server{Log: log}
	w := httptest.NewRecorder()

	s.respondError(w, apperror.BadRequest(errors.New("missing jwt_b64")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if log.warnCalls != 1 || log.errorCalls != 0 {
		t.Fatalf("warnCalls=%d errorCalls=%d, want 1/0", log.warnCalls, log.errorCalls)
	}
}

func TestRespondErrorInternalLogsAsError(t *testing.T) {
	log := &recordingLogger{}
	s := &Server{Log: log}
	w := httptest.NewRecorder()

	s.respondError(w, apperror.Internal(errors.New("proof creation failed")))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if log.errorCalls != 1 || log.warnCalls != 0 {
		t.Fatalf("warnCalls=%d errorCalls=%d, want 0/1", log.warnCalls, log.errorCalls)
	}
}

func TestRespondErrorWrapsPlainError(t *testing.T) {
	log := &recordingLogger{}
	s := &Server{Log: log}
	w := httptest.NewRecorder()

	s.respondError(w, errors.New("unclassified failure"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d (Wrap should default to 500)", w.Code, http.StatusInternalServerError)
	}
}

func TestRespondJSONSetsContentType(t *testing.T) {
	s := &Server{Log: &recordingLogger{}}
	w := httptest.NewRecorder()

	s.respondJSON(w, http.StatusOK, ProverServiceResponse{Message: "ok"})

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", got)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouterServesHealthcheckAndFallback(t *testing.T) {
	s := &Server{Log: &recordingLogger{}}
	router := NewRouter(s, RouterConfig{WriteTimeout: 5 * time.Second, MaxRequestSize: 1 << 20}, &recordingLogger{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/healthcheck status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestResolveJwkOverrideReturnsNilWhenNoOverrideConfigured(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","kid":"test-kid"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"https://example.com","sub":"1234"}`))
	jwt := header + "." + payload + ".sig"

	s := &Server{
		State: &proverstate.ProverServiceState{
			Config: &config.ProverServiceConfig{},
		},
	}

	jwk, err := s.resolveJwkOverride(context.Background(), inputproc.RequestInput{JwtB64: jwt})
	if err != nil {
		t.Fatalf("resolveJwkOverride returned error: %v", err)
	}
	if jwk != nil {
		t.Fatalf("expected nil jwk override, got %+v", jwk)
	}
}

func TestResolveJwkOverrideRejectsMalformedJwt(t *testing.T) {
	s := &Server{
		State: &proverstate.ProverServiceState{
			Config: &config.ProverServiceConfig{},
		},
	}

	_, err := s.resolveJwkOverride(context.Background(), inputproc.RequestInput{JwtB64: "not-a-jwt"})
	if err == nil {
		t.Fatalf("expected an error decoding a malformed jwt")
	}
}

func TestMetricsRouterServesMetricsEndpoint(t *testing.T) {
	router := NewMetricsRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want %d", w.Code, http.StatusOK)
	}
}
