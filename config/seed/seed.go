package seed

import (
	"gamerscove/logger"
	models "gamerscove/models/postgres"
	"gamerscove/services/ai"

	"gorm.io/gorm"
)

// Run loads a small development data set: three users, the starter game
// catalog, a few reviews and one friendship in each state. It is a no-op
// when users already exist.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Log.Infow("seed skipped, data already present")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := []*models.User{
			{FirebaseUID: "seed-uid-ana", Username: "ana", Bio: "Metroidvania enjoyer", GamertagsVisibility: models.VisibilityPublic},
			{FirebaseUID: "seed-uid-bruno", Username: "bruno", Bio: "Platformer speedrunner", GamertagsVisibility: models.VisibilityFriends},
			{FirebaseUID: "seed-uid-carla", Username: "carla", GamertagsVisibility: models.VisibilityFriends},
		}
		users[0].AddGamertag("steam", "ana_hk")
		users[1].AddGamertag("switch", "SW-1234-5678-9012")
		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		games := ai.FallbackGames()
		for i := range games {
			if err := tx.Create(&games[i]).Error; err != nil {
				return err
			}
		}

		reviews := []models.Review{
			{UserID: users[0].ID, GameID: games[0].ID, Rating: 10, Content: "A masterpiece of exploration."},
			{UserID: users[1].ID, GameID: games[0].ID, Rating: 9, Content: "Brutal bosses, fair design."},
			{UserID: users[1].ID, GameID: games[1].ID, Rating: 9, Content: "The assist mode is a great touch."},
		}
		for i := range reviews {
			if err := tx.Create(&reviews[i]).Error; err != nil {
				return err
			}
		}

		friendships := []models.Friendship{
			{RequesterID: users[0].ID, ReceiverID: users[1].ID, Status: models.FriendshipAccepted},
			{RequesterID: users[2].ID, ReceiverID: users[0].ID, Status: models.FriendshipPending},
		}
		for i := range friendships {
			if err := tx.Create(&friendships[i]).Error; err != nil {
				return err
			}
		}

		logger.Log.Infow("seed data loaded",
			"users", len(users), "games", len(games), "reviews", len(reviews))
		return nil
	})
}
