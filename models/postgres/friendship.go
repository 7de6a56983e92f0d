package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus is the lifecycle state of a friend request.
// PENDING moves to ACCEPTED or DECLINED; the only exit from a terminal
// state is deletion of the row.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

/*
 * 'Friendship' is a directed request record between two users. PairLow and
 * PairHigh hold the unordered pair in canonical order so the unique index
 * rejects a reverse-direction duplicate, not just an exact one.
 */
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	RequesterID uint             `gorm:"not null;index"`
	ReceiverID  uint             `gorm:"not null;index"`
	PairLow     uint             `gorm:"not null;uniqueIndex:idx_friendships_pair"`
	PairHigh    uint             `gorm:"not null;uniqueIndex:idx_friendships_pair"`
	Status      FriendshipStatus `gorm:"size:10;not null;default:'PENDING'"`
	CreatedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP"`

	Requester User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	Receiver  User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
}

// GORM hook: reject self-friendships and keep the canonical pair columns
// in sync with requester/receiver.
func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.RequesterID == f.ReceiverID {
		return errors.New("friendship requires two distinct users")
	}
	f.PairLow, f.PairHigh = f.RequesterID, f.ReceiverID
	if f.PairLow > f.PairHigh {
		f.PairLow, f.PairHigh = f.PairHigh, f.PairLow
	}
	return nil
}

func (f *Friendship) IsPending() bool  { return f.Status == FriendshipPending }
func (f *Friendship) IsAccepted() bool { return f.Status == FriendshipAccepted }
func (f *Friendship) IsDeclined() bool { return f.Status == FriendshipDeclined }

func (f *Friendship) InvolvesUser(userID uint) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}

// OtherUserID returns the counterpart of userID in this friendship,
// or 0 when userID is not part of it.
func (f *Friendship) OtherUserID(userID uint) uint {
	switch userID {
	case f.RequesterID:
		return f.ReceiverID
	case f.ReceiverID:
		return f.RequesterID
	}
	return 0
}
