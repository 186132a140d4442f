package services

import (
	"context"
	"errors"
	"time"

	"hobbynet/apperr"
	"hobbynet/db"
	"hobbynet/models"

	"gorm.io/gorm"
)

type FriendService struct{}

func NewFriendService() *FriendService {
	return &FriendService{}
}

// PendingRequest is an incoming request as shown to the receiver.
type PendingRequest struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendRequest creates a pending friend request from sender to receiver, or
// reopens a previously rejected one between the pair. A reopened request
// keeps its original id, sender and receiver even when the new send comes
// from the other side. The returned bool reports a reopen.
//
// The whole check-then-create sequence runs in one transaction so that two
// concurrent sends for the same pair cannot both insert a row.
func (fs *FriendService) SendRequest(ctx context.Context, senderID, receiverID int64) (*models.FriendRequest, bool, error) {
	if senderID == receiverID {
		return nil, false, apperr.InvalidOperation("cannot send a friend request to yourself")
	}

	var request *models.FriendRequest
	reopened := false

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var receiver models.User
		if err := tx.First(&receiver, receiverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("receiver not found")
			}
			return apperr.Internal("failed to load receiver", err)
		}

		lo, hi := models.OrderPair(senderID, receiverID)
		var edges int64
		err := tx.Model(&models.Friendship{}).
			Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
			Count(&edges).Error
		if err != nil {
			return apperr.Internal("failed to check friendship", err)
		}
		if edges > 0 {
			return apperr.Conflict("users are already friends")
		}

		var existing models.FriendRequest
		err = tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID,
		).First(&existing).Error
		if err == nil {
			switch existing.Status {
			case models.FriendRequestPending:
				return apperr.Conflict("friend request already exists")
			case models.FriendRequestRejected:
				existing.Status = models.FriendRequestPending
				if err := tx.Save(&existing).Error; err != nil {
					return apperr.Internal("failed to reopen friend request", err)
				}
				request = &existing
				reopened = true
				return nil
			default:
				// An accepted row without a friendship edge: the
				// already-friends check above should have fired.
				return apperr.Internal("friend request state is inconsistent", nil)
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("failed to look up friend request", err)
		}

		fresh := models.FriendRequest{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Status:     models.FriendRequestPending,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return apperr.Internal("failed to create friend request", err)
		}
		request = &fresh
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	NotifyFriendEvent(ctx, FriendEvent{
		Event:     EventFriendRequestReceived,
		UserID:    request.ReceiverID,
		FromID:    request.SenderID,
		RequestID: request.ID,
		CreatedAt: time.Now(),
	})
	return request, reopened, nil
}

// Accept transitions a pending request to accepted and links both users.
// Only the receiver may accept.
func (fs *FriendService) Accept(ctx context.Context, requestID, actorID int64) (*models.FriendRequest, error) {
	var request models.FriendRequest

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("friend request not found")
			}
			return apperr.Internal("failed to load friend request", err)
		}
		if request.ReceiverID != actorID {
			return apperr.Forbidden("only the receiver can accept a friend request")
		}
		if request.Status != models.FriendRequestPending {
			return apperr.InvalidOperation("friend request is not pending")
		}

		request.Status = models.FriendRequestAccepted
		if err := tx.Save(&request).Error; err != nil {
			return apperr.Internal("failed to accept friend request", err)
		}

		lo, hi := models.OrderPair(request.SenderID, request.ReceiverID)
		edge := models.Friendship{UserLoID: lo, UserHiID: hi}
		err := tx.Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
			FirstOrCreate(&edge).Error
		if err != nil {
			return apperr.Internal("failed to create friendship", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	NotifyFriendEvent(ctx, FriendEvent{
		Event:     EventFriendRequestAccepted,
		UserID:    request.SenderID,
		FromID:    request.ReceiverID,
		RequestID: request.ID,
		CreatedAt: time.Now(),
	})
	return &request, nil
}

// Reject transitions a pending request to rejected. No edge is created; a
// later send between the pair reopens this row.
func (fs *FriendService) Reject(ctx context.Context, requestID, actorID int64) (*models.FriendRequest, error) {
	var request models.FriendRequest

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("friend request not found")
			}
			return apperr.Internal("failed to load friend request", err)
		}
		if request.ReceiverID != actorID {
			return apperr.Forbidden("only the receiver can reject a friend request")
		}
		if request.Status != models.FriendRequestPending {
			return apperr.InvalidOperation("friend request is not pending")
		}

		request.Status = models.FriendRequestRejected
		if err := tx.Save(&request).Error; err != nil {
			return apperr.Internal("failed to reject friend request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Unfollow removes the friendship edge between the actor and the other
// user and deletes any request rows between them, so a later send starts
// from a clean slate. Unfollowing a non-friend is a no-op.
func (fs *FriendService) Unfollow(ctx context.Context, actorID, otherID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var other models.User
		if err := tx.First(&other, otherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user not found")
			}
			return apperr.Internal("failed to load user", err)
		}

		lo, hi := models.OrderPair(actorID, otherID)
		err := tx.Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
			Delete(&models.Friendship{}).Error
		if err != nil {
			return apperr.Internal("failed to delete friendship", err)
		}

		err = tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			actorID, otherID, otherID, actorID,
		).Delete(&models.FriendRequest{}).Error
		if err != nil {
			return apperr.Internal("failed to delete friend requests", err)
		}
		return nil
	})
}

// ListPending returns the incoming pending requests for a user.
func (fs *FriendService) ListPending(ctx context.Context, userID int64) ([]PendingRequest, error) {
	var requests []PendingRequest
	err := db.GetReadOnlyDB(ctx).
		Table("friend_requests fr").
		Joins("JOIN users u ON u.id = fr.sender_id").
		Where("fr.receiver_id = ? AND fr.status = ?", userID, models.FriendRequestPending).
		Select("fr.id, fr.sender_id, u.username AS sender_username, fr.created_at").
		Order("fr.created_at, fr.id").
		Scan(&requests).Error
	if err != nil {
		return nil, apperr.Internal("failed to list pending requests", err)
	}
	return requests, nil
}

// ListFriends returns the users on the other end of the actor's edges.
func (fs *FriendService) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	var friends []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN friendships f ON (f.user_lo_id = u.id AND f.user_hi_id = ?) OR (f.user_hi_id = u.id AND f.user_lo_id = ?)", userID, userID).
		Where("u.id != ?", userID).
		Select("u.id, u.username, u.email, u.date_of_birth, u.created_at").
		Order("u.id").
		Find(&friends).Error
	if err != nil {
		return nil, apperr.Internal("failed to list friends", err)
	}
	return friends, nil
}

// AreFriends reports whether the symmetric edge exists.
func (fs *FriendService) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	lo, hi := models.OrderPair(a, b)
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Friendship{}).
		Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check friendship", err)
	}
	return count > 0, nil
}
