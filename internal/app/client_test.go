package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(url string) *CompletionClient {
	return &CompletionClient{
		APIKey:      "sk-or-test",
		Model:       "test-model",
		BaseURL:     url,
		Temperature: 0.7,
		MaxTokens:   1000,
		HTTP:        http.DefaultClient,
	}
}

func TestComplete_Success(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-or-test" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Use ls -la."}}]}`))
	}))
	defer server.Close()

	answer, err := testClient(server.URL).Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "how do I list files?"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "Use ls -la." {
		t.Fatalf("answer = %q", answer)
	}
	if gotReq.Model != "test-model" || gotReq.Temperature != 0.7 || gotReq.MaxTokens != 1000 {
		t.Fatalf("request params = %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("request messages = %+v", gotReq.Messages)
	}
}

func TestComplete_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","code":429}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Complete(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error = %v", err)
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := testClient(server.URL).Complete(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "api request failed") {
		t.Fatalf("error = %v", err)
	}
}

func TestComplete_MissingAnswerYieldsSentinel(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"empty content", `{"choices":[{"message":{"content":""}}]}`},
		{"not json", `<html>gateway</html>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			answer, err := testClient(server.URL).Complete(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
			if err != nil {
				t.Fatalf("sentinel case must not error: %v", err)
			}
			if !IsExtractionFailure(answer) {
				t.Fatalf("answer = %q, want sentinel prefix", answer)
			}
		})
	}
}

func TestComplete_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(server.URL).Complete(ctx, []Message{{Role: RoleUser, Content: "q"}})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
