package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"hobbynet/db"
	"hobbynet/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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

// testAuthMiddleware stands in for the session middleware: the acting user
// comes from the X-User-ID header.
func testAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-ID")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/api/v1/")
	authed.Use(testAuthMiddleware())
	{
		authed.GET("profile/me", Me)
		authed.PUT("profile", UpdateProfile)
		authed.PATCH("profile", UpdateProfile)
		authed.GET("hobbies", ListHobbies)
		authed.POST("hobbies/add", AddHobby)
		authed.POST("hobbies/remove", RemoveHobby)
		authed.GET("users/search", UserSearch)
		authed.POST("friends/request", SendFriendRequest)
		authed.POST("friends/requests/:id/accept", AcceptFriendRequest)
		authed.POST("friends/requests/:id/reject", RejectFriendRequest)
		authed.POST("friends/unfollow", Unfollow)
		authed.GET("friends", GetFriends)
		authed.GET("friends/requests", GetPendingRequests)
	}
	return r
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, actorID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.FormatInt(actorID, 10))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
