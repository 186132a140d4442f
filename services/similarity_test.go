package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hobbynet/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	ha := []int64{1, 2, 3}
	hb := []int64{2, 3, 4}

	// Two shared hobbies over the *sum* of the set sizes, not the union.
	assert.InDelta(t, 2.0/6.0, Score(ha, hb), 1e-9)
	assert.Equal(t, Score(ha, hb), Score(hb, ha))

	assert.Zero(t, Score(nil, nil))
	assert.Zero(t, Score([]int64{1}, []int64{2}))
	assert.InDelta(t, 0.5, Score([]int64{1}, []int64{1}), 1e-9)
}

func TestSearchRestrictsToSharedHobbies(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	ctx := context.Background()

	chess := createTestHobby(t, "chess")
	hiking := createTestHobby(t, "hiking")

	requester := createTestUser(t, "requester", nil)
	attachTestHobby(t, requester.ID, chess.ID)

	shares := createTestUser(t, "shares", nil)
	attachTestHobby(t, shares.ID, chess.ID)
	attachTestHobby(t, shares.ID, hiking.ID)

	createTestUser(t, "nothing-in-common", nil)

	result, err := ss.Search(ctx, requester.ID, SearchFilters{})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, shares.ID, result.Users[0].ID)
	assert.Equal(t, 1, result.Users[0].CommonHobbiesCount)
}

func TestSearchWithoutHobbiesUsesFullPool(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()

	requester := createTestUser(t, "requester", nil)
	createTestUser(t, "one", nil)
	createTestUser(t, "two", nil)

	result, err := ss.Search(context.Background(), requester.ID, SearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalUsers)
	for _, u := range result.Users {
		assert.NotEqual(t, requester.ID, u.ID)
		assert.Zero(t, u.CommonHobbiesCount)
	}
}

func TestSearchRanksByCommonCount(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	ctx := context.Background()

	var hobbies []*models.Hobby
	for i := 0; i < 3; i++ {
		hobbies = append(hobbies, createTestHobby(t, fmt.Sprintf("hobby-%d", i)))
	}

	requester := createTestUser(t, "requester", nil)
	for _, h := range hobbies {
		attachTestHobby(t, requester.ID, h.ID)
	}

	one := createTestUser(t, "one-shared", nil)
	attachTestHobby(t, one.ID, hobbies[0].ID)

	three := createTestUser(t, "three-shared", nil)
	for _, h := range hobbies {
		attachTestHobby(t, three.ID, h.ID)
	}

	two := createTestUser(t, "two-shared", nil)
	attachTestHobby(t, two.ID, hobbies[0].ID)
	attachTestHobby(t, two.ID, hobbies[1].ID)

	result, err := ss.Search(ctx, requester.ID, SearchFilters{})
	require.NoError(t, err)
	require.Len(t, result.Users, 3)
	assert.Equal(t, three.ID, result.Users[0].ID)
	assert.Equal(t, 3, result.Users[0].CommonHobbiesCount)
	assert.Equal(t, two.ID, result.Users[1].ID)
	assert.Equal(t, one.ID, result.Users[2].ID)
}

func TestSearchPagination(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	ctx := context.Background()

	chess := createTestHobby(t, "chess")
	requester := createTestUser(t, "requester", nil)
	attachTestHobby(t, requester.ID, chess.ID)

	for i := 0; i < 25; i++ {
		candidate := createTestUser(t, fmt.Sprintf("%s-%d", gofakeit.Username(), i), nil)
		attachTestHobby(t, candidate.ID, chess.ID)
	}

	first, err := ss.Search(ctx, requester.ID, SearchFilters{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 25, first.TotalUsers)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Len(t, first.Users, 10)

	// Page zero clamps to page one.
	zero, err := ss.Search(ctx, requester.ID, SearchFilters{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, zero.CurrentPage)
	assert.Equal(t, first.Users, zero.Users)

	// Beyond the last page clamps to the last page.
	last, err := ss.Search(ctx, requester.ID, SearchFilters{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, last.CurrentPage)
	assert.Len(t, last.Users, 5)
}

func TestSearchZeroResultsKeepsRequestedPage(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()

	requester := createTestUser(t, "requester", nil)

	result, err := ss.Search(context.Background(), requester.ID, SearchFilters{Page: 5})
	require.NoError(t, err)
	assert.Zero(t, result.TotalUsers)
	assert.Zero(t, result.TotalPages)
	assert.Equal(t, 5, result.CurrentPage)
	assert.Empty(t, result.Users)
}

func TestSearchAgeBoundary(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	ctx := context.Background()

	requester := createTestUser(t, "requester", nil)

	// Turning exactly 30 today per the 365-day approximation.
	exact := time.Now().AddDate(0, 0, -30*365)
	included := createTestUser(t, "included", &exact)

	// One day short of the cutoff.
	short := time.Now().AddDate(0, 0, -(30*365 - 1))
	createTestUser(t, "excluded", &short)

	// No date of birth never passes an age bound.
	createTestUser(t, "no-dob", nil)

	minAge := 30
	result, err := ss.Search(ctx, requester.ID, SearchFilters{MinAge: &minAge})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, included.ID, result.Users[0].ID)
}

func TestSearchMaxAgeFilter(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	ctx := context.Background()

	requester := createTestUser(t, "requester", nil)

	young := time.Now().AddDate(0, 0, -20*365)
	keep := createTestUser(t, "young", &young)

	old := time.Now().AddDate(0, 0, -40*365)
	createTestUser(t, "old", &old)

	maxAge := 25
	result, err := ss.Search(ctx, requester.ID, SearchFilters{MaxAge: &maxAge})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, keep.ID, result.Users[0].ID)
}

func TestSearchAnnotations(t *testing.T) {
	setupTestDB(t)
	ss := NewSimilarityService()
	fs := NewFriendService()
	ctx := context.Background()

	requester := createTestUser(t, "requester", nil)

	friend := createTestUser(t, "friend", dateOfBirth(25))
	request, _, err := fs.SendRequest(ctx, requester.ID, friend.ID)
	require.NoError(t, err)
	_, err = fs.Accept(ctx, request.ID, friend.ID)
	require.NoError(t, err)

	pendingPeer := createTestUser(t, "pending-peer", nil)
	_, _, err = fs.SendRequest(ctx, pendingPeer.ID, requester.ID)
	require.NoError(t, err)

	stranger := createTestUser(t, "stranger", nil)

	result, err := ss.Search(ctx, requester.ID, SearchFilters{})
	require.NoError(t, err)
	require.Len(t, result.Users, 3)

	byID := make(map[int64]Candidate, len(result.Users))
	for _, u := range result.Users {
		byID[u.ID] = u
	}

	assert.True(t, byID[friend.ID].IsFriend)
	assert.False(t, byID[friend.ID].HasPendingRequest)
	require.NotNil(t, byID[friend.ID].Age)
	assert.Equal(t, 25, *byID[friend.ID].Age)

	assert.False(t, byID[pendingPeer.ID].IsFriend)
	assert.True(t, byID[pendingPeer.ID].HasPendingRequest)
	assert.Nil(t, byID[pendingPeer.ID].Age)

	assert.False(t, byID[stranger.ID].IsFriend)
	assert.False(t, byID[stranger.ID].HasPendingRequest)
}
