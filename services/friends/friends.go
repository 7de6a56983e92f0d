package friends

import (
	"context"
	"errors"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"

	"gorm.io/gorm"
)

// Service implements the friendship state machine:
//
//	PENDING -> ACCEPTED   (receiver only)
//	PENDING -> DECLINED   (receiver only)
//	any     -> deleted    (either participant)
//
// and the visibility predicate that gates gamertag exposure.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SendFriendRequest creates a PENDING friendship from requester to receiver.
// Both users must exist, a user cannot friend themselves, and at most one
// record may exist per pair in either direction.
func (s *Service) SendFriendRequest(ctx context.Context, requesterID, receiverID uint) (*postgres.Friendship, error) {
	if requesterID == receiverID {
		return nil, apperror.InvalidArgument("cannot send a friend request to yourself")
	}

	db := s.db.WithContext(ctx)

	for _, id := range []uint{requesterID, receiverID} {
		var user postgres.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("user", id)
			}
			return nil, err
		}
	}

	var existing postgres.Friendship
	err := db.Where(
		"(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
		requesterID, receiverID, receiverID, requesterID,
	).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("a friendship record already exists between these users")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	friendship := postgres.Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      postgres.FriendshipPending,
	}
	if err := db.Create(&friendship).Error; err != nil {
		return nil, err
	}

	logger.Log.Infow("friend request sent",
		"friendship_id", friendship.ID, "requester_id", requesterID, "receiver_id", receiverID)
	return &friendship, nil
}

// AcceptFriendRequest moves a PENDING request to ACCEPTED. Only the
// receiver may accept, and accepting twice is a conflict.
func (s *Service) AcceptFriendRequest(ctx context.Context, friendshipID, actingUserID uint) (*postgres.Friendship, error) {
	return s.transition(ctx, friendshipID, actingUserID, func(f *postgres.Friendship) error {
		if f.IsAccepted() {
			return apperror.Conflict("friend request already accepted")
		}
		f.Status = postgres.FriendshipAccepted
		return nil
	})
}

// DeclineFriendRequest moves a request to DECLINED. Only the receiver may
// decline; declining an already-declined request is allowed.
func (s *Service) DeclineFriendRequest(ctx context.Context, friendshipID, actingUserID uint) (*postgres.Friendship, error) {
	return s.transition(ctx, friendshipID, actingUserID, func(f *postgres.Friendship) error {
		f.Status = postgres.FriendshipDeclined
		return nil
	})
}

// transition applies one receiver-gated state change as a single
// transaction on the record, so two concurrent actors cannot interleave
// a read-modify-write on the same friendship.
func (s *Service) transition(ctx context.Context, friendshipID, actingUserID uint, apply func(*postgres.Friendship) error) (*postgres.Friendship, error) {
	var friendship postgres.Friendship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&friendship, friendshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("friendship", friendshipID)
			}
			return err
		}
		if friendship.ReceiverID != actingUserID {
			return apperror.Forbidden("only the receiver can respond to this friend request")
		}
		if err := apply(&friendship); err != nil {
			return err
		}
		return tx.Save(&friendship).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("friendship transition applied",
		"friendship_id", friendship.ID, "status", friendship.Status)
	return &friendship, nil
}

// RemoveFriendship hard-deletes the record. Either participant may remove
// it, in any state.
func (s *Service) RemoveFriendship(ctx context.Context, friendshipID, actingUserID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var friendship postgres.Friendship
		if err := tx.First(&friendship, friendshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("friendship", friendshipID)
			}
			return err
		}
		if !friendship.InvolvesUser(actingUserID) {
			return apperror.Forbidden("you are not part of this friendship")
		}
		return tx.Delete(&friendship).Error
	})
	if err != nil {
		return err
	}

	logger.Log.Infow("friendship removed", "friendship_id", friendshipID, "acting_user_id", actingUserID)
	return nil
}

// AreFriends reports whether an ACCEPTED friendship exists between the two
// users in either direction. A user is always friends with themselves.
func (s *Service) AreFriends(ctx context.Context, userIDA, userIDB uint) (bool, error) {
	if userIDA == userIDB {
		return true, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&postgres.Friendship{}).
		Where("status = ?", postgres.FriendshipAccepted).
		Where(
			"(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
			userIDA, userIDB, userIDB, userIDA,
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanViewGamertags decides whether viewerID may see the gamertags of
// ownerID under the given visibility setting. Owners always see their own;
// PUBLIC is visible to everyone; FRIENDS requires an accepted friendship.
// Any other setting fails closed.
func (s *Service) CanViewGamertags(ctx context.Context, ownerID, viewerID uint, visibility postgres.GamertagsVisibility) (bool, error) {
	if ownerID == viewerID {
		return true, nil
	}
	switch visibility {
	case postgres.VisibilityPublic:
		return true, nil
	case postgres.VisibilityFriends:
		return s.AreFriends(ctx, ownerID, viewerID)
	}
	return false, nil
}

// GetFriends returns the counterpart users across all ACCEPTED friendships
// involving userID.
func (s *Service) GetFriends(ctx context.Context, userID uint) ([]postgres.User, error) {
	db := s.db.WithContext(ctx)

	if err := s.ensureUserExists(db, userID); err != nil {
		return nil, err
	}

	var friendships []postgres.Friendship
	err := db.Where("status = ?", postgres.FriendshipAccepted).
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherUserID(userID))
	}

	friends := []postgres.User{}
	if len(friendIDs) > 0 {
		if err := db.Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
			return nil, err
		}
	}
	return friends, nil
}

// GetPendingReceivedRequests lists PENDING requests where userID is the
// receiver.
func (s *Service) GetPendingReceivedRequests(ctx context.Context, userID uint) ([]postgres.Friendship, error) {
	return s.pendingByRole(ctx, userID, "receiver_id")
}

// GetPendingSentRequests lists PENDING requests where userID is the
// requester.
func (s *Service) GetPendingSentRequests(ctx context.Context, userID uint) ([]postgres.Friendship, error) {
	return s.pendingByRole(ctx, userID, "requester_id")
}

func (s *Service) pendingByRole(ctx context.Context, userID uint, column string) ([]postgres.Friendship, error) {
	db := s.db.WithContext(ctx)

	if err := s.ensureUserExists(db, userID); err != nil {
		return nil, err
	}

	requests := []postgres.Friendship{}
	err := db.Where("status = ?", postgres.FriendshipPending).
		Where(column+" = ?", userID).
		Order("created_at").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByID returns a friendship by its id.
func (s *Service) FindByID(ctx context.Context, id uint) (*postgres.Friendship, error) {
	var friendship postgres.Friendship
	if err := s.db.WithContext(ctx).First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("friendship", id)
		}
		return nil, err
	}
	return &friendship, nil
}

func (s *Service) ensureUserExists(db *gorm.DB, userID uint) error {
	var count int64
	if err := db.Model(&postgres.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
