package services

import (
	"context"
	"sort"
	"time"

	"hobbynet/apperr"
	"hobbynet/db"
	"hobbynet/models"
)

const searchPageSize = 10

type SimilarityService struct {
	hobbies *HobbyService
}

func NewSimilarityService() *SimilarityService {
	return &SimilarityService{hobbies: NewHobbyService()}
}

// SearchFilters narrows the candidate pool; nil bounds mean unbounded.
type SearchFilters struct {
	MinAge *int
	MaxAge *int
	Page   int
}

type Candidate struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Age                *int       `json:"age,omitempty"`
	CommonHobbiesCount int        `json:"common_hobbies_count"`
	IsFriend           bool       `json:"is_friend"`
	HasPendingRequest  bool       `json:"has_pending_request"`
}

type SearchResult struct {
	Users       []Candidate `json:"users"`
	TotalUsers  int         `json:"total_users"`
	TotalPages  int         `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
}

// Score is the shared-interest overlap between two hobby id sets:
// |A∩B| / (|A|+|B|). The denominator is the sum of the set sizes, so a
// shared hobby counts twice there. This is deliberately not Jaccard; do
// not "fix" it, downstream consumers depend on the exact values.
func Score(a, b []int64) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	common := 0
	for _, id := range b {
		if _, ok := seen[id]; ok {
			common++
		}
	}
	return float64(common) / float64(total)
}

type candidateRow struct {
	ID            int64
	Username      string
	Email         string
	DateOfBirth   *time.Time
	CommonHobbies int
}

// Search ranks the candidate pool for the requester by shared hobbies and
// returns one page of annotated results.
func (ss *SimilarityService) Search(ctx context.Context, requesterID int64, filters SearchFilters) (*SearchResult, error) {
	hobbyIDs, err := ss.hobbies.HobbyIDsForUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	query := db.GetReadOnlyDB(ctx).Table("users u").Where("u.id != ?", requesterID)
	if len(hobbyIDs) > 0 {
		// Only users sharing at least one hobby stay in the pool.
		query = query.
			Select("u.id, u.username, u.email, u.date_of_birth, COUNT(uh.hobby_id) AS common_hobbies").
			Joins("JOIN user_hobbies uh ON uh.user_id = u.id AND uh.hobby_id IN (?)", hobbyIDs).
			Group("u.id, u.username, u.email, u.date_of_birth")
	} else {
		// A requester without hobbies searches the full pool.
		query = query.Select("u.id, u.username, u.email, u.date_of_birth, 0 AS common_hobbies")
	}

	// Age bounds use the 365-day calendar approximation on the birth date,
	// not exact birthday arithmetic. Users without a birth date never pass
	// an age bound.
	now := time.Now()
	if filters.MinAge != nil {
		cutoff := now.AddDate(0, 0, -*filters.MinAge*365)
		query = query.Where("u.date_of_birth IS NOT NULL AND u.date_of_birth <= ?", cutoff)
	}
	if filters.MaxAge != nil {
		cutoff := now.AddDate(0, 0, -*filters.MaxAge*365)
		query = query.Where("u.date_of_birth IS NOT NULL AND u.date_of_birth >= ?", cutoff)
	}

	var rows []candidateRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to query candidates", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CommonHobbies != rows[j].CommonHobbies {
			return rows[i].CommonHobbies > rows[j].CommonHobbies
		}
		return rows[i].ID < rows[j].ID
	})

	totalUsers := len(rows)
	totalPages := (totalUsers + searchPageSize - 1) / searchPageSize

	page := filters.Page
	if page < 1 {
		page = 1
	}
	// With zero results the requested page is reported back unclamped.
	if totalUsers > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * searchPageSize
	end := start + searchPageSize
	if start > totalUsers {
		start = totalUsers
	}
	if end > totalUsers {
		end = totalUsers
	}
	pageRows := rows[start:end]

	users, err := ss.annotate(ctx, requesterID, pageRows, now)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Users:       users,
		TotalUsers:  totalUsers,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// annotate fills in the per-candidate extras for one page: exact age,
// friendship and pending-request flags against the requester.
func (ss *SimilarityService) annotate(ctx context.Context, requesterID int64, rows []candidateRow, now time.Time) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(rows))
	if len(rows) == 0 {
		return candidates, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var edges []models.Friendship
	err := db.GetReadOnlyDB(ctx).
		Where("(user_lo_id = ? AND user_hi_id IN (?)) OR (user_hi_id = ? AND user_lo_id IN (?))",
			requesterID, ids, requesterID, ids).
		Find(&edges).Error
	if err != nil {
		return nil, apperr.Internal("failed to load friendships", err)
	}
	friendIDs := make(map[int64]bool, len(edges))
	for _, e := range edges {
		if e.UserLoID == requesterID {
			friendIDs[e.UserHiID] = true
		} else {
			friendIDs[e.UserLoID] = true
		}
	}

	var requests []models.FriendRequest
	err = db.GetReadOnlyDB(ctx).
		Where("status = ?", models.FriendRequestPending).
		Where("(sender_id = ? AND receiver_id IN (?)) OR (receiver_id = ? AND sender_id IN (?))",
			requesterID, ids, requesterID, ids).
		Find(&requests).Error
	if err != nil {
		return nil, apperr.Internal("failed to load friend requests", err)
	}
	pendingIDs := make(map[int64]bool, len(requests))
	for _, r := range requests {
		if r.SenderID == requesterID {
			pendingIDs[r.ReceiverID] = true
		} else {
			pendingIDs[r.SenderID] = true
		}
	}

	for _, r := range rows {
		candidate := Candidate{
			ID:                 r.ID,
			Username:           r.Username,
			Email:              r.Email,
			DateOfBirth:        r.DateOfBirth,
			CommonHobbiesCount: r.CommonHobbies,
			IsFriend:           friendIDs[r.ID],
			HasPendingRequest:  pendingIDs[r.ID],
		}
		if r.DateOfBirth != nil {
			age := exactAge(*r.DateOfBirth, now)
			candidate.Age = &age
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// exactAge is the calendar age, corrected for whether this year's birthday
// has occurred yet.
func exactAge(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
