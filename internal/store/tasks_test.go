package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tasktalk-dev/tasktalk/internal/models"
)

func TestTaskStore_CreateDefaults(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")
	tasks := NewTaskStore(gdb)

	task, err := tasks.Create(user.ID, CreateTaskParams{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.IsCompleted {
		t.Error("new task should not be completed")
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %v, want %v", task.Priority, models.PriorityMedium)
	}
	if task.CompletedAt != nil {
		t.Error("new task should not have completed_at set")
	}
	if task.ID == 0 {
		t.Error("task was not assigned an id")
	}
}

func TestTaskStore_CreateValidation(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")
	tasks := NewTaskStore(gdb)

	cases := []struct {
		name   string
		params CreateTaskParams
		field  string
	}{
		{"empty title", CreateTaskParams{Title: ""}, "title"},
		{"overlong title", CreateTaskParams{Title: strings.Repeat("a", 256)}, "title"},
		{"overlong description", CreateTaskParams{Title: "ok", Description: strings.Repeat("a", 1001)}, "description"},
		{"bad priority", CreateTaskParams{Title: "ok", Priority: "urgent"}, "priority"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tasks.Create(user.ID, tc.params)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if validationErr.Field != tc.field {
				t.Errorf("field = %v, want %v", validationErr.Field, tc.field)
			}
		})
	}
}

func TestTaskStore_OwnershipIsolation(t *testing.T) {
	gdb := openTestDB(t)
	alice := createTestUser(t, gdb, "alice@example.com")
	bob := createTestUser(t, gdb, "bob@example.com")
	tasks := NewTaskStore(gdb)

	task, err := tasks.Create(alice.ID, CreateTaskParams{Title: "Alice's task"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := tasks.Get(bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() as other user error = %v, want ErrNotFound", err)
	}

	title := "hijacked"
	if _, err := tasks.Update(bob.ID, task.ID, UpdateTaskParams{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() as other user error = %v, want ErrNotFound", err)
	}

	if err := tasks.Delete(bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() as other user error = %v, want ErrNotFound", err)
	}

	// The owner still sees the unchanged task.
	got, err := tasks.Get(alice.ID, task.ID)
	if err != nil {
		t.Fatalf("Get() as owner error = %v", err)
	}
	if got.Title != "Alice's task" {
		t.Errorf("title = %v, want unchanged", got.Title)
	}
}

func TestTaskStore_ListFilter(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")
	other := createTestUser(t, gdb, "bob@example.com")
	tasks := NewTaskStore(gdb)

	open, err := tasks.Create(user.ID, CreateTaskParams{Title: "open"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	done, err := tasks.Create(user.ID, CreateTaskParams{Title: "done"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := tasks.Toggle(user.ID, done.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	if _, err := tasks.Create(other.ID, CreateTaskParams{Title: "not mine"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	all, err := tasks.List(user.ID, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() returned %d tasks, want 2", len(all))
	}

	completed := true
	completedTasks, err := tasks.List(user.ID, &completed)
	if err != nil {
		t.Fatalf("List(completed) error = %v", err)
	}
	if len(completedTasks) != 1 || completedTasks[0].ID != done.ID {
		t.Errorf("List(completed) = %v, want only task %d", completedTasks, done.ID)
	}

	notCompleted := false
	openTasks, err := tasks.List(user.ID, &notCompleted)
	if err != nil {
		t.Fatalf("List(open) error = %v", err)
	}
	if len(openTasks) != 1 || openTasks[0].ID != open.ID {
		t.Errorf("List(open) = %v, want only task %d", openTasks, open.ID)
	}
}

func TestTaskStore_ListEmpty(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")

	tasks, err := NewTaskStore(gdb).List(user.ID, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("List() = %v, want empty", tasks)
	}
}

func TestTaskStore_UpdatePartial(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")
	tasks := NewTaskStore(gdb)

	task, err := tasks.Create(user.ID, CreateTaskParams{Title: "original", Description: "details"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	priority := models.PriorityHigh
	updated, err := tasks.Update(user.ID, task.ID, UpdateTaskParams{Priority: &priority})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Priority != models.PriorityHigh {
		t.Errorf("priority = %v, want high", updated.Priority)
	}
	if updated.Title != "original" || updated.Description != "details" {
		t.Error("Update() changed fields that were not supplied")
	}
}

func TestTaskStore_ToggleIsItsOwnInverse(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")
	tasks := NewTaskStore(gdb)

	dueDate := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task, err := tasks.Create(user.ID, CreateTaskParams{Title: "with deadline", DueDate: &dueDate})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, err := tasks.Toggle(user.ID, task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !first.IsCompleted {
		t.Error("first toggle should complete the task")
	}
	if first.CompletedAt == nil {
		t.Error("first toggle should set completed_at")
	}

	second, err := tasks.Toggle(user.ID, task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if second.IsCompleted {
		t.Error("second toggle should reopen the task")
	}
	if second.CompletedAt != nil {
		t.Error("second toggle should clear completed_at")
	}
	if second.DueDate == nil || !second.DueDate.Equal(dueDate) {
		t.Errorf("due_date = %v, want unchanged %v", second.DueDate, dueDate)
	}
}

func TestTaskStore_DeleteMissing(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "alice@example.com")

	if err := NewTaskStore(gdb).Delete(user.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}
