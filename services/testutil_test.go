package services

import (
	"testing"
	"time"

	"hobbynet/db"
	"hobbynet/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points db.ORM at a fresh in-memory sqlite database. A single
// connection keeps the :memory: database alive for the whole test.
func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))
	db.ORM = database
}

func createTestUser(t *testing.T, username string, dateOfBirth *time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "x",
		DateOfBirth: dateOfBirth,
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestHobby(t *testing.T, name string) *models.Hobby {
	t.Helper()
	hobby := &models.Hobby{Name: name}
	require.NoError(t, db.ORM.Create(hobby).Error)
	return hobby
}

func attachTestHobby(t *testing.T, userID, hobbyID int64) {
	t.Helper()
	require.NoError(t, db.ORM.Create(&models.UserHobby{UserID: userID, HobbyID: hobbyID}).Error)
}

func dateOfBirth(yearsAgo int) *time.Time {
	dob := time.Now().AddDate(-yearsAgo, 0, 0).AddDate(0, 0, -1)
	return &dob
}
