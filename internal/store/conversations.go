package store

import (
	"errors"
	"time"

	"github.com/tasktalk-dev/tasktalk/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversationStore persists chat threads. Messages are append-only;
// nothing here updates or deletes a message once written.
type ConversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// GetOrCreate resolves an existing conversation for the user or starts a
// new one when no id is supplied. Referencing another user's conversation
// is ErrForbidden, a missing one ErrNotFound.
func (s *ConversationStore) GetOrCreate(userID uint, conversationID *uint) (*models.Conversation, error) {
	if conversationID == nil {
		conversation := models.Conversation{UserID: userID}

		if err := s.db.Create(&conversation).Error; err != nil {
			return nil, err
		}

		return &conversation, nil
	}

	var conversation models.Conversation

	if err := s.db.Where("id = ?", *conversationID).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if conversation.UserID != userID {
		return nil, ErrForbidden
	}

	return &conversation, nil
}

func (s *ConversationStore) AppendMessage(conversationID, userID uint, role, content string, toolCallResults datatypes.JSON) (*models.Message, error) {
	message := models.Message{
		ConversationID:  conversationID,
		UserID:          userID,
		Role:            role,
		Content:         content,
		ToolCallResults: toolCallResults,
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Update("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

// History returns every message in the conversation, oldest first. The
// full sequence is rebuilt from storage on each call; no state is cached
// between requests.
func (s *ConversationStore) History(conversationID uint) ([]models.Message, error) {
	var messages []models.Message

	if err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}
