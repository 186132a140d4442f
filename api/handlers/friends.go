package handlers

import (
	"net/http"
	"strconv"

	"hobbynet/services"

	"github.com/gin-gonic/gin"
)

var friendService = services.NewFriendService()

type SendFriendRequestBody struct {
	Receiver int64 `json:"receiver" binding:"required"`
}

type UnfollowBody struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// SendFriendRequest creates (or reopens) a friend request to the given
// receiver. 201 for a fresh request, 200 for a reopened one.
func SendFriendRequest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var body SendFriendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver is required"})
		return
	}

	request, reopened, err := friendService.SendRequest(c.Request.Context(), userID, body.Receiver)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if reopened {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"request": request})
}

func requestIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return id, true
}

func AcceptFriendRequest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	if _, err := friendService.Accept(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "friend request accepted"})
}

func RejectFriendRequest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	if _, err := friendService.Reject(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "friend request rejected"})
}

// Unfollow removes the friendship with the given user and clears any
// request rows between the pair.
func Unfollow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var body UnfollowBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := friendService.Unfollow(c.Request.Context(), userID, body.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "user unfollowed"})
}

func GetFriends(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	friends, err := friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func GetPendingRequests(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	requests, err := friendService.ListPending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
