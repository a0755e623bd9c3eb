package tools

import (
	"encoding/json"
	"fmt"

	"github.com/tasktalk-dev/tasktalk/internal/store"
)

// ToolCall is one decoded instruction from the model. The set is closed:
// exactly the five task operations, nothing else.
type ToolCall interface {
	Name() string
}

type AddTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"` // RFC 3339, optional
}

func (AddTask) Name() string { return "add_task" }

type ListTasks struct {
	Completed *bool `json:"completed"`
}

func (ListTasks) Name() string { return "list_tasks" }

type UpdateTask struct {
	TaskID      uint    `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func (UpdateTask) Name() string { return "update_task" }

type CompleteTask struct {
	TaskID uint `json:"task_id"`
}

func (CompleteTask) Name() string { return "complete_task" }

type DeleteTask struct {
	TaskID uint `json:"task_id"`
}

func (DeleteTask) Name() string { return "delete_task" }

// Decode maps a named tool invocation onto its variant. Unknown tool names
// are rejected rather than ignored.
func Decode(name string, arguments []byte) (ToolCall, error) {
	var call ToolCall

	switch name {
	case "add_task":
		call = &AddTask{}
	case "list_tasks":
		call = &ListTasks{}
	case "update_task":
		call = &UpdateTask{}
	case "complete_task":
		call = &CompleteTask{}
	case "delete_task":
		call = &DeleteTask{}
	default:
		return nil, &store.ValidationError{Field: "tool", Message: fmt.Sprintf("unknown tool %q", name)}
	}

	if len(arguments) == 0 {
		return call, nil
	}

	if err := json.Unmarshal(arguments, call); err != nil {
		return nil, &store.ValidationError{Field: "arguments", Message: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
	}

	return call, nil
}

type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Definitions returns the tool schemas advertised to the model.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        "add_task",
			Description: "Create a new task on the user's todo list.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string", "description": "Task title, 1-255 characters."},
					"description": map[string]any{"type": "string", "description": "Optional details, up to 1000 characters."},
					"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
					"due_date":    map[string]any{"type": "string", "description": "Optional RFC 3339 due timestamp."},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "list_tasks",
			Description: "List the user's tasks, optionally filtered by completion state.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"completed": map[string]any{"type": "boolean", "description": "Filter by completion state; omit for all tasks."},
				},
			},
		},
		{
			Name:        "update_task",
			Description: "Update fields of an existing task. Only supplied fields change.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":     map[string]any{"type": "integer", "description": "Id of the task to update."},
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
					"due_date":    map[string]any{"type": "string", "description": "RFC 3339 due timestamp."},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "complete_task",
			Description: "Flip a task's completion state.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{"type": "integer", "description": "Id of the task to toggle."},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a task from the user's list.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{"type": "integer", "description": "Id of the task to delete."},
				},
				"required": []string{"task_id"},
			},
		},
	}
}
