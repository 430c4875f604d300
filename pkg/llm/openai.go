package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIEditor edits sections with the OpenAI chat completions API.
type OpenAIEditor struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIEditor creates an OpenAI-backed editor. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewOpenAIEditor(opts Options) (editor *OpenAIEditor) {
	opts = opts.withDefaults(DefaultOpenAIModel)

	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	config.HTTPClient = opts.httpClient()

	editor = &OpenAIEditor{
		client:    openai.NewClientWithConfig(config),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}
	return editor
}

// Edit sends one section (plus any conversation history) to OpenAI.
func (e *OpenAIEditor) Edit(ctx context.Context, req EditRequest) (edited string, err error) {
	turns := buildConversation(req)

	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemPrompt(),
	})
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == roleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: t.Text,
		})
	}

	var resp openai.ChatCompletionResponse
	resp, err = e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		err = errors.Wrap(err, "openai request failed")
		return edited, err
	}

	if len(resp.Choices) == 0 {
		err = errors.New("no content in openai response")
		return edited, err
	}

	edited, err = cleanResponse(resp.Choices[0].Message.Content)
	if err != nil {
		err = errors.Wrap(err, "openai returned no usable section")
		return edited, err
	}

	return edited, err
}
