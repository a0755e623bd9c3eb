package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message rows are append-only: once written they are never updated or
// deleted except through conversation cascade.
type Message struct {
	gorm.Model

	ConversationID  uint           `gorm:"not null;index"`
	UserID          uint           `gorm:"not null;index"`
	Role            string         `gorm:"not null"` // "user", "assistant"
	Content         string         `gorm:"type:text;not null"`
	ToolCallResults datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User         User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
