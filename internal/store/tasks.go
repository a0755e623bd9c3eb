package store

import (
	"errors"
	"time"

	"github.com/tasktalk-dev/tasktalk/internal/models"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 1000
)

// TaskStore runs every statement scoped by the owning user's id. The id
// always comes from the verified token subject, never from the client.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	IsCompleted *bool
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}

	if len(title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: "must be at most 255 characters"}
	}

	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLength {
		return &ValidationError{Field: "description", Message: "must be at most 1000 characters"}
	}

	return nil
}

func validatePriority(priority string) error {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	}

	return &ValidationError{Field: "priority", Message: "must be one of low, medium, high"}
}

func (s *TaskStore) Create(userID uint, params CreateTaskParams) (*models.Task, error) {
	if err := validateTitle(params.Title); err != nil {
		return nil, err
	}

	if err := validateDescription(params.Description); err != nil {
		return nil, err
	}

	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}

	if err := validatePriority(params.Priority); err != nil {
		return nil, err
	}

	task := models.Task{
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List returns the user's tasks, optionally filtered by completion state.
// A user with no tasks gets an empty slice, not an error.
func (s *TaskStore) List(userID uint, completed *bool) ([]models.Task, error) {
	query := s.db.Where("user_id = ?", userID)

	if completed != nil {
		query = query.Where("is_completed = ?", *completed)
	}

	var tasks []models.Task

	if err := query.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *TaskStore) Get(userID, taskID uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &task, nil
}

func (s *TaskStore) Update(userID, taskID uint, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.Get(userID, taskID)

	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if err := validateTitle(*params.Title); err != nil {
			return nil, err
		}
		task.Title = *params.Title
	}

	if params.Description != nil {
		if err := validateDescription(*params.Description); err != nil {
			return nil, err
		}
		task.Description = *params.Description
	}

	if params.Priority != nil {
		if err := validatePriority(*params.Priority); err != nil {
			return nil, err
		}
		task.Priority = *params.Priority
	}

	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}

	if params.IsCompleted != nil && *params.IsCompleted != task.IsCompleted {
		task.IsCompleted = *params.IsCompleted

		if task.IsCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskStore) Delete(userID, taskID uint) error {
	task, err := s.Get(userID, taskID)

	if err != nil {
		return err
	}

	return s.db.Delete(task).Error
}

// Toggle flips completion state, stamping completed_at on the way up and
// clearing it on the way down.
func (s *TaskStore) Toggle(userID, taskID uint) (*models.Task, error) {
	task, err := s.Get(userID, taskID)

	if err != nil {
		return nil, err
	}

	flipped := !task.IsCompleted

	return s.Update(userID, taskID, UpdateTaskParams{IsCompleted: &flipped})
}
