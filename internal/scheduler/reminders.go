package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/tasktalk-dev/tasktalk/db"
	"github.com/tasktalk-dev/tasktalk/internal/models"
)

const (
	sweepInterval  = time.Minute
	reminderWindow = time.Hour
)

// ReminderScheduler periodically sweeps for open tasks that are due soon
// and logs a reminder for each.
type ReminderScheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewReminderScheduler() *ReminderScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderScheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *ReminderScheduler) Start() {
	log.Println("Starting reminder scheduler...")
	go s.run()
}

func (s *ReminderScheduler) Stop() {
	log.Println("Stopping reminder scheduler...")
	s.cancel()
}

func (s *ReminderScheduler) run() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *ReminderScheduler) sweep() {
	now := time.Now()

	var tasks []models.Task

	if err := db.DB.
		Where("is_completed = ? AND due_date IS NOT NULL AND due_date BETWEEN ? AND ?", false, now, now.Add(reminderWindow)).
		Find(&tasks).Error; err != nil {
		log.Printf("Reminder sweep failed: %v", err)
		return
	}

	for _, task := range tasks {
		log.Printf("Task %d (%s) for user %d is due at %v", task.ID, task.Title, task.UserID, task.DueDate.Format(time.RFC3339))
	}
}

// Global scheduler instance
var globalScheduler *ReminderScheduler

// Initialize creates and starts the global reminder scheduler
func Initialize() {
	globalScheduler = NewReminderScheduler()
	globalScheduler.Start()
}

// Shutdown stops the global reminder scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
