package handlers

import (
	"net/http"

	"hobbynet/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status per the taxonomy in
// apperr. Unrecognized errors are treated as internal.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.KindOf(err).HTTPStatus(), gin.H{"error": apperr.MessageOf(err)})
}

// currentUserID pulls the authenticated user set by the session
// middleware; zero means the middleware is missing from the route.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func requireUser(c *gin.Context) (int64, bool) {
	userID := currentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID, true
}
