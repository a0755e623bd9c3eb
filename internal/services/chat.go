package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasktalk-dev/tasktalk/internal/llm"
	"github.com/tasktalk-dev/tasktalk/internal/models"
	"github.com/tasktalk-dev/tasktalk/internal/store"
	"github.com/tasktalk-dev/tasktalk/internal/tools"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatService runs one chat turn end to end: resolve the conversation,
// persist the inbound message, rebuild history, invoke the model, dispatch
// any tool calls against the task store, persist and return the reply.
// Everything is reconstructed from storage per request; the service holds
// no conversation state between turns.
type ChatService struct {
	tasks         *store.TaskStore
	conversations *store.ConversationStore
	completer     llm.Completer
}

func NewChatService(db *gorm.DB, completer llm.Completer) *ChatService {
	return &ChatService{
		tasks:         store.NewTaskStore(db),
		conversations: store.NewConversationStore(db),
		completer:     completer,
	}
}

type ChatTurnRequest struct {
	ConversationID *uint
	Message        string
}

type ToolCallResult struct {
	ID         string          `json:"id"`
	Tool       string          `json:"tool"`
	Arguments  json.RawMessage `json:"arguments,omitempty"`
	Result     any             `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

type ChatTurnResponse struct {
	ConversationID uint             `json:"conversation_id"`
	Response       string           `json:"response"`
	ToolCalls      []ToolCallResult `json:"tool_calls,omitempty"`
}

type taskSummary struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	IsCompleted bool       `json:"is_completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func summarizeTask(task *models.Task) taskSummary {
	return taskSummary{
		ID:          task.ID,
		Title:       task.Title,
		IsCompleted: task.IsCompleted,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	}
}

func (s *ChatService) HandleTurn(ctx context.Context, userID uint, req ChatTurnRequest) (*ChatTurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &store.ValidationError{Field: "message", Message: "must not be empty"}
	}

	conversation, err := s.conversations.GetOrCreate(userID, req.ConversationID)

	if err != nil {
		return nil, err
	}

	// The inbound message is persisted before the model call so a failure
	// from here on never loses the user's input.
	if _, err := s.conversations.AppendMessage(conversation.ID, userID, models.RoleUser, req.Message, nil); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	history, err := s.conversations.History(conversation.ID)

	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]llm.Message, 0, len(history))

	for _, message := range history {
		messages = append(messages, llm.Message{Role: message.Role, Content: message.Content})
	}

	completion, err := s.completer.Complete(ctx, messages)

	if err != nil {
		return nil, err
	}

	var reply string
	var results []ToolCallResult
	var payload datatypes.JSON

	if len(completion.ToolCalls) > 0 {
		var lines []string
		results, lines = s.dispatch(userID, completion.ToolCalls)
		reply = strings.Join(lines, "\n")

		encoded, err := json.Marshal(results)

		if err != nil {
			return nil, fmt.Errorf("encode tool results: %w", err)
		}

		payload = datatypes.JSON(encoded)
	} else {
		reply = completion.Content

		if reply == "" {
			reply = "I'm not sure how to help with that. You can ask me to add, list, update, complete or delete tasks."
		}
	}

	if _, err := s.conversations.AppendMessage(conversation.ID, userID, models.RoleAssistant, reply, payload); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	return &ChatTurnResponse{
		ConversationID: conversation.ID,
		Response:       reply,
		ToolCalls:      results,
	}, nil
}

// dispatch runs each tool call in model order. A failed call records its
// error and later calls still run; nothing rolls back.
func (s *ChatService) dispatch(userID uint, calls []llm.ToolCall) ([]ToolCallResult, []string) {
	results := make([]ToolCallResult, 0, len(calls))
	lines := make([]string, 0, len(calls))

	for _, call := range calls {
		result := ToolCallResult{
			ID:   call.ID,
			Tool: call.Name,
		}

		// Malformed arguments still reach execute for the error; echoing
		// them raw would poison the results encoding.
		if json.Valid([]byte(call.Arguments)) {
			result.Arguments = json.RawMessage(call.Arguments)
		}

		if result.ID == "" {
			result.ID = uuid.NewString()
		}

		start := time.Now()
		outcome, line, err := s.execute(userID, call)
		result.DurationMs = time.Since(start).Milliseconds()

		if err != nil {
			result.Error = err.Error()
			lines = append(lines, friendlyError(err))
		} else {
			result.Result = outcome
			lines = append(lines, line)
		}

		results = append(results, result)
	}

	return results, lines
}

func (s *ChatService) execute(userID uint, call llm.ToolCall) (any, string, error) {
	decoded, err := tools.Decode(call.Name, []byte(call.Arguments))

	if err != nil {
		return nil, "", err
	}

	switch tc := decoded.(type) {
	case *tools.AddTask:
		dueDate, err := parseDueDate(tc.DueDate)

		if err != nil {
			return nil, "", err
		}

		task, err := s.tasks.Create(userID, store.CreateTaskParams{
			Title:       tc.Title,
			Description: tc.Description,
			Priority:    tc.Priority,
			DueDate:     dueDate,
		})

		if err != nil {
			return nil, "", err
		}

		return summarizeTask(task), fmt.Sprintf("Created task %q (#%d).", task.Title, task.ID), nil

	case *tools.ListTasks:
		taskList, err := s.tasks.List(userID, tc.Completed)

		if err != nil {
			return nil, "", err
		}

		summaries := make([]taskSummary, 0, len(taskList))

		for i := range taskList {
			summaries = append(summaries, summarizeTask(&taskList[i]))
		}

		return summaries, describeTaskList(taskList), nil

	case *tools.UpdateTask:
		params := store.UpdateTaskParams{
			Title:       tc.Title,
			Description: tc.Description,
			Priority:    tc.Priority,
		}

		if tc.DueDate != nil {
			dueDate, err := parseDueDate(*tc.DueDate)

			if err != nil {
				return nil, "", err
			}

			params.DueDate = dueDate
		}

		task, err := s.tasks.Update(userID, tc.TaskID, params)

		if err != nil {
			return nil, "", describeTaskError(tc.TaskID, err)
		}

		return summarizeTask(task), fmt.Sprintf("Updated task %q (#%d).", task.Title, task.ID), nil

	case *tools.CompleteTask:
		task, err := s.tasks.Toggle(userID, tc.TaskID)

		if err != nil {
			return nil, "", describeTaskError(tc.TaskID, err)
		}

		if task.IsCompleted {
			return summarizeTask(task), fmt.Sprintf("Marked task %q (#%d) as completed.", task.Title, task.ID), nil
		}

		return summarizeTask(task), fmt.Sprintf("Marked task %q (#%d) as not completed.", task.Title, task.ID), nil

	case *tools.DeleteTask:
		if err := s.tasks.Delete(userID, tc.TaskID); err != nil {
			return nil, "", describeTaskError(tc.TaskID, err)
		}

		return map[string]uint{"deleted": tc.TaskID}, fmt.Sprintf("Deleted task #%d.", tc.TaskID), nil
	}

	return nil, "", &store.ValidationError{Field: "tool", Message: fmt.Sprintf("unhandled tool %q", call.Name)}
}

func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)

	if err != nil {
		return nil, &store.ValidationError{Field: "due_date", Message: "must be an RFC 3339 timestamp"}
	}

	return &parsed, nil
}

func describeTaskError(taskID uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("task %d not found", taskID)
	}

	return err
}

func describeTaskList(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "You have no tasks."
	}

	titles := make([]string, 0, len(tasks))

	for _, task := range tasks {
		state := " "

		if task.IsCompleted {
			state = "x"
		}

		titles = append(titles, fmt.Sprintf("[%s] #%d %s", state, task.ID, task.Title))
	}

	return fmt.Sprintf("You have %d task(s):\n%s", len(tasks), strings.Join(titles, "\n"))
}

func friendlyError(err error) string {
	var validationErr *store.ValidationError

	if errors.As(err, &validationErr) {
		return fmt.Sprintf("I couldn't do that: %s.", validationErr.Error())
	}

	return fmt.Sprintf("Sorry, %s.", err.Error())
}
