package store

import (
	"path/filepath"
	"testing"

	"github.com/tasktalk-dev/tasktalk/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tasktalk.db")

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Task{}, &models.Conversation{}, &models.Message{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "hash"}

	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	return &user
}
