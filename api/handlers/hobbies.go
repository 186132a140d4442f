package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbynet/services"
)

var hobbyService = services.NewHobbyService()

type HobbyRequest struct {
	Name string `json:"name" binding:"required"`
}

type HobbyListing struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	UserHasHobby bool   `json:"user_has_hobby"`
}

// ListHobbies returns the full catalog, flagging the entries already on
// the caller's profile.
func ListHobbies(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	hobbies, err := hobbyService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ownIDs, err := hobbyService.HobbyIDsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	owned := make(map[int64]bool, len(ownIDs))
	for _, id := range ownIDs {
		owned[id] = true
	}

	listings := make([]HobbyListing, 0, len(hobbies))
	for _, h := range hobbies {
		listings = append(listings, HobbyListing{
			ID:           h.ID,
			Name:         h.Name,
			UserHasHobby: owned[h.ID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"hobbies": listings})
}

// AddHobby attaches the named hobby to the caller's profile, creating the
// catalog entry on first use. 201 when the catalog row is new, 200 when it
// already existed.
func AddHobby(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req HobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hobby name is required"})
		return
	}

	hobby, created, err := hobbyService.AddToProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"id":      hobby.ID,
		"name":    hobby.Name,
		"created": created,
	})
}

type HobbyDetachRequest struct {
	HobbyID int64 `json:"hobby_id" binding:"required"`
}

// RemoveHobby detaches a hobby from the caller's profile.
func RemoveHobby(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req HobbyDetachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hobby_id is required"})
		return
	}

	if err := hobbyService.Detach(c.Request.Context(), userID, req.HobbyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hobby removed"})
}
