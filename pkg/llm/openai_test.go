package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestNewOpenAIEditor(t *testing.T) {
	editor := NewOpenAIEditor(Options{APIKey: "test-key", Model: "gpt-4o-mini"})

	if editor == nil {
		t.Fatal("Expected non-nil editor")
	}

	if editor.model != "gpt-4o-mini" {
		t.Errorf("Expected model 'gpt-4o-mini', got '%s'", editor.model)
	}
}

func TestOpenAIEdit(t *testing.T) {
	var captured openai.ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Expected chat completions endpoint, got %s", r.URL.Path)
		}

		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got '%s'", r.Header.Get("Authorization"))
		}

		_ = json.NewDecoder(r.Body).Decode(&captured)

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-test",
			Model: DefaultOpenAIModel,
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: "\\section*{Skills}\nGo, Kubernetes",
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	editor := NewOpenAIEditor(Options{APIKey: "test-key", BaseURL: server.URL + "/v1"})

	edited, err := editor.Edit(context.Background(), EditRequest{
		JobDescription: "Platform engineer",
		Section:        "\\section*{Skills}\nGo",
		History:        []Exchange{{Section: "\\section{A}", Edited: "\\section{A}"}},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	if edited != "\\section*{Skills}\nGo, Kubernetes" {
		t.Errorf("Unexpected edited section: '%s'", edited)
	}

	// System prompt plus two history turns plus the current section.
	if len(captured.Messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(captured.Messages))
	}

	if captured.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("Expected first message to be system, got '%s'", captured.Messages[0].Role)
	}

	if captured.Messages[2].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("Expected replayed edit as assistant, got '%s'", captured.Messages[2].Role)
	}
}

func TestOpenAINoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	editor := NewOpenAIEditor(Options{APIKey: "test-key", BaseURL: server.URL + "/v1"})

	_, err := editor.Edit(context.Background(), EditRequest{Section: "\\section{A}"})
	if err == nil {
		t.Fatal("Expected error for empty choices, got nil")
	}

	if !strings.Contains(err.Error(), "no content") {
		t.Errorf("Error should mention 'no content': %v", err)
	}
}

func TestOpenAIAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid request","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	editor := NewOpenAIEditor(Options{APIKey: "test-key", BaseURL: server.URL + "/v1"})

	_, err := editor.Edit(context.Background(), EditRequest{Section: "\\section{A}"})
	if err == nil {
		t.Fatal("Expected error for bad request, got nil")
	}

	if !strings.Contains(err.Error(), "400") {
		t.Errorf("Error should mention status code 400: %v", err)
	}
}
