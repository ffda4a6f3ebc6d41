package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskSuggester turns free text into task drafts.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, dashboardName, text string) ([]TaskDraft, error)
}

// TaskDraft is a suggested task that has not been saved.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewAIService(apiKey string) *AIService {
	return newAIService(openai.DefaultConfig(apiKey))
}

func newAIService(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

const suggestPrompt = `You extract actionable tasks for the project dashboard %q.

Current time: %s

Text:
%s

Reply with a JSON object of the form
{"tasks": [{"title": "...", "description": "...", "deadline": "2025-10-28T23:59:59Z"}]}

Rules:
- Return {"tasks": []} when the text contains no task
- Resolve relative dates ("tomorrow", "next week") against the current time
- deadline is an RFC 3339 string or null when no date is given
- Keep titles short; put detail in description`

// SuggestTasks asks the chat model for task drafts found in text.
func (s *AIService) SuggestTasks(ctx context.Context, dashboardName, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(suggestPrompt, dashboardName, s.now().Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseTaskDrafts(resp.Choices[0].Message.Content)
}

func parseTaskDrafts(content string) ([]TaskDraft, error) {
	var out struct {
		Tasks []TaskDraft `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return out.Tasks, nil
}
