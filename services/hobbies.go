package services

import (
	"context"
	"errors"
	"strings"

	"hobbynet/apperr"
	"hobbynet/db"
	"hobbynet/models"

	"gorm.io/gorm"
)

type HobbyService struct{}

func NewHobbyService() *HobbyService {
	return &HobbyService{}
}

// NormalizeHobbyName is the canonical form stored in the catalog:
// lowercase, surrounding whitespace trimmed.
func NormalizeHobbyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindOrCreate returns the catalog entry for name, creating it on first
// use. The bool reports whether a new row was created. The unique index on
// hobbies.name is the authoritative guard; on a duplicate-key race the row
// is re-fetched.
func (hs *HobbyService) FindOrCreate(ctx context.Context, name string) (*models.Hobby, bool, error) {
	normalized := NormalizeHobbyName(name)
	if normalized == "" {
		return nil, false, apperr.Validation("hobby name is required")
	}

	var hobby models.Hobby
	err := db.GetReadOnlyDB(ctx).Where("name = ?", normalized).First(&hobby).Error
	if err == nil {
		return &hobby, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.Internal("failed to look up hobby", err)
	}

	hobby = models.Hobby{Name: normalized}
	err = db.GetWriteDB(ctx).Create(&hobby).Error
	if err != nil {
		// Lost a concurrent create; the row exists now.
		refetch := db.GetReadOnlyDB(ctx).Where("name = ?", normalized).First(&hobby).Error
		if refetch != nil {
			return nil, false, apperr.Internal("failed to create hobby", err)
		}
		return &hobby, false, nil
	}
	return &hobby, true, nil
}

// ListAll returns the whole catalog in creation order.
func (hs *HobbyService) ListAll(ctx context.Context) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	err := db.GetReadOnlyDB(ctx).Order("created_at, id").Find(&hobbies).Error
	if err != nil {
		return nil, apperr.Internal("failed to list hobbies", err)
	}
	return hobbies, nil
}

// ListForUser returns the hobbies attached to a user in creation order.
func (hs *HobbyService) ListForUser(ctx context.Context, userID int64) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	err := db.GetReadOnlyDB(ctx).
		Table("hobbies h").
		Joins("JOIN user_hobbies uh ON uh.hobby_id = h.id").
		Where("uh.user_id = ?", userID).
		Order("h.created_at, h.id").
		Select("h.id, h.name, h.created_at").
		Find(&hobbies).Error
	if err != nil {
		return nil, apperr.Internal("failed to list user hobbies", err)
	}
	return hobbies, nil
}

// HobbyIDsForUser returns the id set of a user's hobbies.
func (hs *HobbyService) HobbyIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.UserHobby{}).
		Where("user_id = ?", userID).
		Pluck("hobby_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal("failed to load user hobby ids", err)
	}
	return ids, nil
}

// Attach adds a hobby to the user's set. Attaching an already attached
// hobby is a no-op.
func (hs *HobbyService) Attach(ctx context.Context, userID, hobbyID int64) error {
	var existing int64
	err := db.GetReadOnlyDB(ctx).Model(&models.UserHobby{}).
		Where("user_id = ? AND hobby_id = ?", userID, hobbyID).
		Count(&existing).Error
	if err != nil {
		return apperr.Internal("failed to check hobby attachment", err)
	}
	if existing > 0 {
		return nil
	}

	err = db.GetWriteDB(ctx).Create(&models.UserHobby{UserID: userID, HobbyID: hobbyID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apperr.Internal("failed to attach hobby", err)
	}
	return nil
}

// Detach removes a hobby from the user's set. Detaching a hobby that is
// not attached is a no-op.
func (hs *HobbyService) Detach(ctx context.Context, userID, hobbyID int64) error {
	err := db.GetWriteDB(ctx).
		Where("user_id = ? AND hobby_id = ?", userID, hobbyID).
		Delete(&models.UserHobby{}).Error
	if err != nil {
		return apperr.Internal("failed to detach hobby", err)
	}
	return nil
}

// AddToProfile find-or-creates the named hobby and attaches it to the
// user. The bool reports whether the catalog row was newly created.
func (hs *HobbyService) AddToProfile(ctx context.Context, userID int64, name string) (*models.Hobby, bool, error) {
	hobby, created, err := hs.FindOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if err := hs.Attach(ctx, userID, hobby.ID); err != nil {
		return nil, false, err
	}
	return hobby, created, nil
}
