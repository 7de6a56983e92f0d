package users

import (
	"context"
	"testing"

	"gamerscove/apperror"
	models "gamerscove/models/postgres"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Game{}))
	return NewService(db)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	t.Run("defaults visibility to friends", func(t *testing.T) {
		created, err := service.Create(ctx, &models.User{FirebaseUID: "uid-1", Username: "ana"})
		require.NoError(t, err)
		assert.Equal(t, models.VisibilityFriends, created.GamertagsVisibility)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := service.Create(ctx, &models.User{FirebaseUID: "uid-2", Username: "ana"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("duplicate identity conflicts", func(t *testing.T) {
		_, err := service.Create(ctx, &models.User{FirebaseUID: "uid-1", Username: "ana2"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("username required", func(t *testing.T) {
		_, err := service.Create(ctx, &models.User{FirebaseUID: "uid-3"})
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	user, err := service.Create(ctx, &models.User{FirebaseUID: "uid-1", Username: "ana", Bio: "old bio"})
	require.NoError(t, err)

	t.Run("partial update leaves omitted fields alone", func(t *testing.T) {
		avatar := "https://example.com/a.png"
		updated, err := service.UpdateProfile(ctx, user.ID, ProfileUpdate{AvatarURL: &avatar})
		require.NoError(t, err)
		assert.Equal(t, "old bio", updated.Bio)
		assert.Equal(t, avatar, updated.AvatarURL)
	})

	t.Run("platforms round-trip", func(t *testing.T) {
		updated, err := service.UpdateProfile(ctx, user.ID, ProfileUpdate{PreferredPlatforms: []string{"PC", "Switch"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"PC", "Switch"}, updated.PlatformList())
	})
}

func TestGamertags(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	user, err := service.Create(ctx, &models.User{FirebaseUID: "uid-1", Username: "ana"})
	require.NoError(t, err)

	t.Run("add and replace", func(t *testing.T) {
		updated, err := service.AddGamertag(ctx, user.ID, "steam", "ana_old")
		require.NoError(t, err)
		assert.Equal(t, "ana_old", updated.GamertagMap()["steam"])

		updated, err = service.AddGamertag(ctx, user.ID, "steam", "ana_new")
		require.NoError(t, err)
		assert.Equal(t, "ana_new", updated.GamertagMap()["steam"])
		assert.Len(t, updated.GamertagMap(), 1)
	})

	t.Run("remove", func(t *testing.T) {
		updated, err := service.RemoveGamertag(ctx, user.ID, "steam")
		require.NoError(t, err)
		assert.Empty(t, updated.GamertagMap())
	})

	t.Run("blank platform rejected", func(t *testing.T) {
		_, err := service.AddGamertag(ctx, user.ID, " ", "tag")
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})

	t.Run("invalid visibility rejected", func(t *testing.T) {
		_, err := service.UpdateGamertagsVisibility(ctx, user.ID, "EVERYONE")
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	user, err := service.Create(ctx, &models.User{FirebaseUID: "uid-1", Username: "ana"})
	require.NoError(t, err)

	game := &models.Game{ExternalAPIID: "ext-1", Title: "Celeste"}
	require.NoError(t, service.db.Create(game).Error)

	t.Run("add is idempotent", func(t *testing.T) {
		_, err := service.AddFavoriteGame(ctx, user.ID, game.ID)
		require.NoError(t, err)
		updated, err := service.AddFavoriteGame(ctx, user.ID, game.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{game.ID}, updated.FavoriteGames())
	})

	t.Run("unknown game is not found", func(t *testing.T) {
		_, err := service.AddFavoriteGame(ctx, user.ID, 999)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		updated, err := service.RemoveFavoriteGame(ctx, user.ID, game.ID)
		require.NoError(t, err)
		assert.Empty(t, updated.FavoriteGames())
	})
}
