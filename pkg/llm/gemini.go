package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GeminiEditor edits sections with Google's Gemini API.
type GeminiEditor struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewGeminiEditor creates a Gemini-backed editor. Call Close when done.
func NewGeminiEditor(ctx context.Context, opts Options) (editor *GeminiEditor, err error) {
	opts = opts.withDefaults(DefaultGeminiModel)

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}

	var client *genai.Client
	client, err = genai.NewClient(ctx, clientOpts...)
	if err != nil {
		err = errors.Wrap(err, "failed to create genai client")
		return editor, err
	}

	editor = &GeminiEditor{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		timeout:   opts.Timeout,
	}
	return editor, err
}

// Edit sends one section (plus any conversation history) to Gemini.
func (e *GeminiEditor) Edit(ctx context.Context, req EditRequest) (edited string, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	model := e.client.GenerativeModel(e.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(buildSystemPrompt()))
	model.SetMaxOutputTokens(int32(e.maxTokens))

	turns := buildConversation(req)
	session := model.StartChat()
	session.History = geminiHistory(turns[:len(turns)-1])

	var resp *genai.GenerateContentResponse
	resp, err = session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Text))
	if err != nil {
		err = errors.Wrap(err, "gemini request failed")
		return edited, err
	}

	edited, err = cleanResponse(geminiText(resp))
	if err != nil {
		err = errors.Wrap(err, "gemini returned no usable section")
		return edited, err
	}

	return edited, err
}

// Close releases the underlying client.
func (e *GeminiEditor) Close() (err error) {
	err = e.client.Close()
	return err
}

func geminiHistory(turns []turn) (history []*genai.Content) {
	history = make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == roleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return history
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (text string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return text
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			builder.WriteString(string(t))
		}
	}

	text = builder.String()
	return text
}
