package models

import "gorm.io/gorm"

type Conversation struct {
	gorm.Model

	UserID uint `gorm:"not null;index"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
