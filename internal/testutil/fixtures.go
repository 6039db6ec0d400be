package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"valentina/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email, and
// unique Telegram metadata.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Email:            email,
		Password:         string(hash),
		TelegramID:       100000 + n,
		TelegramUsername: fmt.Sprintf("tester_%d", n),
		IsActive:         true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestLink creates the Telegram link row for a user, mirroring the
// user's Telegram metadata the way registration does.
func CreateTestLink(t *testing.T, db *gorm.DB, user *models.User) *models.TelegramLink {
	t.Helper()

	link := &models.TelegramLink{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		Username:   user.TelegramUsername,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test telegram link: %v", err)
	}
	return link
}

// CreateTestValentine creates a valentine from the user to the given handle.
func CreateTestValentine(t *testing.T, db *gorm.DB, userID, recipient string) *models.Valentine {
	t.Helper()

	valentine := &models.Valentine{
		UserID:            userID,
		RecipientTelegram: recipient,
		Message:           fmt.Sprintf("Test message %d", nextID()),
		File:              models.PlaceholderFileKey,
	}
	if err := db.Create(valentine).Error; err != nil {
		t.Fatalf("failed to create test valentine: %v", err)
	}
	return valentine
}
