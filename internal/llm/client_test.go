package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"divisafe-support/internal/domain"
)

func TestHTTPClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "key", "asi1-mini", time.Second, nil)
	out, err := c.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be kind"},
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "hello there" {
		t.Fatalf("unexpected reply %q", out)
	}
	if got.Model != "asi1-mini" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestHTTPClient_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadGateway, `{}`},
		{"api error", http.StatusOK, `{"error":{"message":"quota"}}`},
		{"empty choices", http.StatusOK, `{"choices":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "key", "", time.Second, nil)
			if _, err := c.Complete(context.Background(), nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestHTTPClient_NotConfigured(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:0", "", "", time.Second, nil)
	if _, err := c.Complete(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestHTTPClient_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", "", 5*time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Complete(ctx, nil); err == nil {
		t.Fatalf("expected timeout error")
	}
}
