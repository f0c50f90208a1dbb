package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestInvoke(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"ls -la\n"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", server.URL, 5*time.Second)

	reply, err := client.Invoke(context.Background(), "generate a command", "list files", "/tmp")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if reply != "ls -la" {
		t.Errorf("Expected 'ls -la', got %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("Expected model 'test-model', got %v", gotBody["model"])
	}
}

func TestInvoke_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", server.URL, 5*time.Second)

	if _, err := client.Invoke(context.Background(), "p", "m", "/tmp"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestAvailable(t *testing.T) {
	if NewClient("", "m", "", 0).Available() {
		t.Error("Expected unavailable without API key")
	}
	if !NewClient("key", "m", "", 0).Available() {
		t.Error("Expected available with API key")
	}
}
