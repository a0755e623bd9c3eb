package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	gorm.Model

	UserID      uint   `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"size:1000"`
	IsCompleted bool   `gorm:"not null;default:false"`
	Priority    string `gorm:"not null;default:medium"` // "low", "medium", "high"
	DueDate     *time.Time
	CompletedAt *time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
