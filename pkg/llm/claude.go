package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// ClaudeEditor edits sections with the Anthropic Messages API.
type ClaudeEditor struct {
	client     anthropic.Client
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClaudeEditor creates a Claude-backed editor.
func NewClaudeEditor(opts Options) (editor *ClaudeEditor) {
	opts = opts.withDefaults(DefaultClaudeModel)
	httpClient := opts.httpClient()

	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	editor = &ClaudeEditor{
		client:     anthropic.NewClient(requestOpts...),
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: httpClient,
	}
	return editor
}

// Edit sends one section (plus any conversation history) to Claude.
func (e *ClaudeEditor) Edit(ctx context.Context, req EditRequest) (edited string, err error) {
	turns := buildConversation(req)

	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Text)
		if t.Role == roleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	var msg *anthropic.Message
	msg, err = e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: int64(e.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: buildSystemPrompt()},
		},
		Messages: messages,
	})
	if err != nil {
		err = errors.Wrap(err, "claude request failed")
		return edited, err
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	edited, err = cleanResponse(builder.String())
	if err != nil {
		err = errors.Wrap(err, "claude returned no usable section")
		return edited, err
	}

	return edited, err
}
