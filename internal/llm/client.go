package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tasktalk-dev/tasktalk/internal/models"
	"github.com/tasktalk-dev/tasktalk/internal/tools"
)

// ErrUnavailable wraps transport failures from the provider so handlers
// can surface them as upstream errors.
var ErrUnavailable = errors.New("llm provider unavailable")

const defaultModel = "gpt-4o-mini"

const defaultTimeout = 30 * time.Second

const systemPrompt = `You are TaskTalk, an assistant that manages the user's todo list.

You may call these tools: add_task, list_tasks, update_task, complete_task, delete_task.

Rules:
- Only call a tool when the user's intent is unambiguous. If a request could refer to more than one task, ask a clarifying question instead of guessing.
- Never invent task ids. Use list_tasks to find a task before referring to it by id.
- Dates are RFC 3339 timestamps.
- For anything unrelated to the todo list, answer briefly in plain text.`

type Message struct {
	Role    string
	Content string
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is either assistant text or one or more tool invocations.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

type Completer interface {
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}

type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	timeout := defaultTimeout

	if seconds := os.Getenv("OPENAI_TIMEOUT_SECONDS"); seconds != "" {
		parsed, err := strconv.Atoi(seconds)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_TIMEOUT_SECONDS: %v", err)
		}
		timeout = time.Duration(parsed) * time.Second
	}

	return &Client{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *Client) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: buildMessages(messages),
		Tools:    buildTools(),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrUnavailable)
	}

	message := resp.Choices[0].Message
	completion := &Completion{Content: message.Content}

	for _, call := range message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return completion, nil
}

func buildMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	result = append(result, openai.SystemMessage(systemPrompt))

	for _, message := range messages {
		if message.Role == models.RoleAssistant {
			result = append(result, openai.AssistantMessage(message.Content))
		} else {
			result = append(result, openai.UserMessage(message.Content))
		}
	}

	return result
}

func buildTools() []openai.ChatCompletionToolUnionParam {
	definitions := tools.Definitions()
	result := make([]openai.ChatCompletionToolUnionParam, 0, len(definitions))

	for _, definition := range definitions {
		result = append(result, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        definition.Name,
			Description: openai.String(definition.Description),
			Parameters:  openai.FunctionParameters(definition.Parameters),
		}))
	}

	return result
}

// Default is the provider client used by the chat handler; set by Init.
var Default Completer

func Init() error {
	client, err := NewClient()

	if err != nil {
		return err
	}

	Default = client
	return nil
}
