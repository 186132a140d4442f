package services

import (
	"context"
	"testing"

	"hobbynet/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateNormalizesName(t *testing.T) {
	setupTestDB(t)
	hs := NewHobbyService()
	ctx := context.Background()

	first, created, err := hs.FindOrCreate(ctx, "Reading")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "reading", first.Name)

	second, created, err := hs.FindOrCreate(ctx, "  reading ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestFindOrCreateEmptyName(t *testing.T) {
	setupTestDB(t)
	hs := NewHobbyService()

	_, _, err := hs.FindOrCreate(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAttachDetachIdempotent(t *testing.T) {
	setupTestDB(t)
	hs := NewHobbyService()
	ctx := context.Background()

	user := createTestUser(t, "alice", nil)
	hobby := createTestHobby(t, "chess")

	require.NoError(t, hs.Attach(ctx, user.ID, hobby.ID))
	require.NoError(t, hs.Attach(ctx, user.ID, hobby.ID))

	ids, err := hs.HobbyIDsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{hobby.ID}, ids)

	require.NoError(t, hs.Detach(ctx, user.ID, hobby.ID))
	require.NoError(t, hs.Detach(ctx, user.ID, hobby.ID))

	ids, err = hs.HobbyIDsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListAllCreationOrder(t *testing.T) {
	setupTestDB(t)
	hs := NewHobbyService()
	ctx := context.Background()

	for _, name := range []string{"chess", "hiking", "baking"} {
		_, _, err := hs.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	hobbies, err := hs.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, hobbies, 3)
	assert.Equal(t, "chess", hobbies[0].Name)
	assert.Equal(t, "hiking", hobbies[1].Name)
	assert.Equal(t, "baking", hobbies[2].Name)
}

func TestAddToProfile(t *testing.T) {
	setupTestDB(t)
	hs := NewHobbyService()
	ctx := context.Background()

	user := createTestUser(t, "bob", nil)

	hobby, created, err := hs.AddToProfile(ctx, user.ID, "Painting")
	require.NoError(t, err)
	assert.True(t, created)

	// Same name from another user reuses the catalog row.
	other := createTestUser(t, "carol", nil)
	again, created, err := hs.AddToProfile(ctx, other.ID, "painting")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, hobby.ID, again.ID)

	ids, err := hs.HobbyIDsForUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{hobby.ID}, ids)
}
