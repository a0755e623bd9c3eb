package handlers

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tasktalk-dev/tasktalk/db"
	"github.com/tasktalk-dev/tasktalk/internal/auth"
	"github.com/tasktalk-dev/tasktalk/internal/middleware"
	"github.com/tasktalk-dev/tasktalk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("JWT_ALGORITHM", "")

	if err := auth.InitJWT(); err != nil {
		t.Fatalf("InitJWT() error = %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "tasktalk.db")

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Task{}, &models.Conversation{}, &models.Message{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db.DB = gdb
}

func createTestUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{Email: email, PasswordHash: string(passwordHash)}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	return &user
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()

	token, err := auth.GenerateJWT(userID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	return token
}

func testRouter() *gin.Engine {
	r := gin.New()

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
			auth.POST("/logout", Logout)
		}

		api.GET("/user/profile", middleware.AuthMiddleware(), Profile)

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", ListTasks)
			tasks.POST("", CreateTask)
			tasks.GET("/:task_id", GetTask)
			tasks.PUT("/:task_id", UpdateTask)
			tasks.DELETE("/:task_id", DeleteTask)
			tasks.PATCH("/:task_id/toggle", ToggleTask)
		}

		api.POST("/:user_id/chat", middleware.AuthMiddleware(), Chat)
	}

	return r
}
