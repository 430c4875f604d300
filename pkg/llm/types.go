package llm

import (
	"net/http"
	"time"
)

const (
	// DefaultClaudeModel is the Claude model used when none is configured.
	DefaultClaudeModel = "claude-sonnet-4-20250514"
	// DefaultOpenAIModel is the OpenAI model used when none is configured.
	DefaultOpenAIModel = "gpt-4o"
	// DefaultGeminiModel is the Gemini model used when none is configured.
	DefaultGeminiModel = "gemini-2.0-flash"
	// DefaultMaxTokens caps the length of an edited section.
	DefaultMaxTokens = 4096
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 120 * time.Second
)

// EditRequest asks a model to rewrite one resume section.
type EditRequest struct {
	JobDescription string `json:"job_description,omitempty"`
	Section        string `json:"section"`
	// History holds earlier exchanges of the same document, oldest first.
	// It is empty for stateless edits.
	History []Exchange `json:"history,omitempty"`
}

// Exchange is one completed edit: the section sent and the text accepted for it.
type Exchange struct {
	Section string `json:"section"`
	Edited  string `json:"edited"`
}

// Options configures any of the editor backends.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	MaxRetries int
	Timeout    time.Duration
}

func (o Options) withDefaults(model string) (opts Options) {
	opts = o
	if opts.Model == "" {
		opts.Model = model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

func (o Options) httpClient() (client *http.Client) {
	client = &http.Client{
		Timeout: o.Timeout,
	}
	return client
}

// turn roles shared by every backend before mapping to provider types.
const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

type turn struct {
	Role string
	Text string
}
