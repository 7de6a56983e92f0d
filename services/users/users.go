package users

import (
	"context"
	"errors"
	"strings"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"

	"gorm.io/gorm"
)

// Service manages user profiles. The account (credentials, email) lives in
// the external identity provider; this service only keeps the profile row
// keyed by the provider's subject uid.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create registers a profile for a verified identity. Usernames and
// provider uids must both be unique.
func (s *Service) Create(ctx context.Context, user *postgres.User) (*postgres.User, error) {
	if strings.TrimSpace(user.FirebaseUID) == "" {
		return nil, apperror.InvalidArgument("firebase uid cannot be empty")
	}
	if strings.TrimSpace(user.Username) == "" {
		return nil, apperror.InvalidArgument("username cannot be empty")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&postgres.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("username already exists: " + user.Username)
	}
	if err := db.Model(&postgres.User{}).Where("firebase_uid = ?", user.FirebaseUID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("a user with this firebase uid already exists")
	}

	if user.GamertagsVisibility == "" {
		user.GamertagsVisibility = postgres.VisibilityFriends
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	logger.Log.Infow("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *Service) FindByID(ctx context.Context, id uint) (*postgres.User, error) {
	var user postgres.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*postgres.User, error) {
	var user postgres.User
	err := s.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", firebaseUID)
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*postgres.User, error) {
	var user postgres.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries partial profile changes; nil fields are untouched.
type ProfileUpdate struct {
	Bio                *string
	AvatarURL          *string
	PreferredPlatforms []string
	FavoriteGameIDs    []uint
}

// UpdateProfile applies a partial update to the user's own profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*postgres.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.PreferredPlatforms != nil {
		user.SetPlatformList(update.PreferredPlatforms)
	}
	if update.FavoriteGameIDs != nil {
		user.SetFavoriteGames(update.FavoriteGameIDs)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	logger.Log.Infow("profile updated", "user_id", user.ID)
	return user, nil
}

// UpdateGamertagsVisibility sets who may see the user's gamertags.
func (s *Service) UpdateGamertagsVisibility(ctx context.Context, userID uint, visibility postgres.GamertagsVisibility) (*postgres.User, error) {
	if visibility != postgres.VisibilityPublic && visibility != postgres.VisibilityFriends {
		return nil, apperror.InvalidArgument("visibility must be PUBLIC or FRIENDS")
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.GamertagsVisibility = visibility
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	logger.Log.Infow("gamertags visibility updated", "user_id", user.ID, "visibility", visibility)
	return user, nil
}

// AddGamertag sets the user's tag for one platform, replacing any previous
// tag on that platform.
func (s *Service) AddGamertag(ctx context.Context, userID uint, platform, gamertag string) (*postgres.User, error) {
	if strings.TrimSpace(platform) == "" || strings.TrimSpace(gamertag) == "" {
		return nil, apperror.InvalidArgument("platform and gamertag are required")
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AddGamertag(platform, gamertag)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AddFavoriteGame adds a game to the user's favorites. The game must
// exist; duplicates are ignored.
func (s *Service) AddFavoriteGame(ctx context.Context, userID, gameID uint) (*postgres.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&postgres.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperror.NotFound("game", gameID)
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AddFavoriteGame(gameID)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveFavoriteGame drops a game from the user's favorites. Removing a
// game that is not a favorite is a no-op.
func (s *Service) RemoveFavoriteGame(ctx context.Context, userID, gameID uint) (*postgres.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.RemoveFavoriteGame(gameID)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveGamertag drops the user's tag for one platform.
func (s *Service) RemoveGamertag(ctx context.Context, userID uint, platform string) (*postgres.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.RemoveGamertag(platform)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
