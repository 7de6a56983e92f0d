package postgres

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GamertagsVisibility controls who may see a user's gamertags map.
type GamertagsVisibility string

const (
	VisibilityPublic  GamertagsVisibility = "PUBLIC"
	VisibilityFriends GamertagsVisibility = "FRIENDS"
)

/*
 * 'User' contains the blueprint definition of a platform user. The account
 * itself lives in the external identity provider; FirebaseUID links the two.
 */
type User struct {
	ID                  uint                `gorm:"primaryKey"`
	FirebaseUID         string              `gorm:"size:128;not null;uniqueIndex"`
	Username            string              `gorm:"size:50;not null;uniqueIndex"`
	Bio                 string              `gorm:"type:text"`
	AvatarURL           string              `gorm:"type:text"`
	PreferredPlatforms  datatypes.JSON      `gorm:"default:'[]'"`
	FavoriteGameIDs     datatypes.JSON      `gorm:"default:'[]'"`
	Gamertags           datatypes.JSON      `gorm:"default:'{}'"`
	GamertagsVisibility GamertagsVisibility `gorm:"size:10;not null;default:'FRIENDS'"`
	CreatedAt           time.Time           `gorm:"default:CURRENT_TIMESTAMP"`
}

func (u *User) PlatformList() []string {
	return decodeStringSlice(u.PreferredPlatforms)
}

func (u *User) SetPlatformList(platforms []string) {
	u.PreferredPlatforms = encodeJSON(platforms)
}

func (u *User) FavoriteGames() []uint {
	var ids []uint
	if len(u.FavoriteGameIDs) > 0 {
		_ = json.Unmarshal(u.FavoriteGameIDs, &ids)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids
}

func (u *User) SetFavoriteGames(ids []uint) {
	u.FavoriteGameIDs = encodeJSON(ids)
}

func (u *User) AddFavoriteGame(gameID uint) {
	ids := u.FavoriteGames()
	for _, id := range ids {
		if id == gameID {
			return
		}
	}
	u.SetFavoriteGames(append(ids, gameID))
}

func (u *User) RemoveFavoriteGame(gameID uint) {
	ids := u.FavoriteGames()
	kept := ids[:0]
	for _, id := range ids {
		if id != gameID {
			kept = append(kept, id)
		}
	}
	u.SetFavoriteGames(kept)
}

func (u *User) GamertagMap() map[string]string {
	tags := map[string]string{}
	if len(u.Gamertags) > 0 {
		_ = json.Unmarshal(u.Gamertags, &tags)
	}
	return tags
}

func (u *User) SetGamertagMap(tags map[string]string) {
	u.Gamertags = encodeJSON(tags)
}

func (u *User) AddGamertag(platform, gamertag string) {
	tags := u.GamertagMap()
	tags[platform] = gamertag
	u.SetGamertagMap(tags)
}

func (u *User) RemoveGamertag(platform string) {
	tags := u.GamertagMap()
	delete(tags, platform)
	u.SetGamertagMap(tags)
}

func decodeStringSlice(raw datatypes.JSON) []string {
	var out []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func encodeJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
