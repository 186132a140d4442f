package handlers

import (
	"net/http"
	"time"

	"hobbynet/services"

	"github.com/gin-gonic/gin"
)

type ProfileUpdateRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	DateOfBirth     string `json:"date_of_birth"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Me returns the authenticated user's profile with their hobby list.
func Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	hobbies, err := hobbyService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"date_of_birth": user.DateOfBirth,
		"hobbies":       hobbies,
	})
}

// UpdateProfile applies a partial update. Empty-string fields are treated
// as absent. A password change rotates the session so the caller's cookie
// stays valid.
func UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var update services.ProfileUpdate
	if req.Username != "" {
		update.Username = &req.Username
	}
	if req.Email != "" {
		update.Email = &req.Email
	}
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format, use YYYY-MM-DD"})
			return
		}
		update.DateOfBirth = &parsed
	}
	if req.CurrentPassword != "" {
		update.CurrentPassword = &req.CurrentPassword
	}
	if req.NewPassword != "" {
		update.NewPassword = &req.NewPassword
	}

	user, passwordChanged, err := userService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	if passwordChanged {
		oldToken := c.GetString("session_token")
		newToken, err := services.RotateSession(c.Request.Context(), oldToken, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		setSessionCookie(c, newToken)
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
