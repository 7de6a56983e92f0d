package routes

import (
	"gamerscove/controllers"
	"gamerscove/middleware"
	"gamerscove/services/ai"
	"gamerscove/services/friends"
	"gamerscove/services/games"
	"gamerscove/services/reviews"
	"gamerscove/services/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, agent *ai.Agent) {
	userService := users.NewService(db)
	gameService := games.NewService(db)
	reviewService := reviews.NewService(db)
	friendService := friends.NewService(db)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	api := router.Group("/api")

	api.POST("/auth/token", controllers.DevToken(userService))

	// Everything below needs a verified identity.
	authed := api.Group("/")
	authed.Use(middleware.AuthRequired)
	{
		// Profile creation is the one call allowed before a local user exists.
		authed.POST("/users", controllers.CreateUser(userService))
	}

	// Routes bound to an existing local user.
	registered := api.Group("/")
	registered.Use(middleware.AuthRequired, middleware.RequireUser(db))
	{
		me := registered.Group("/users/me")
		{
			me.GET("", controllers.GetMe())
			me.PATCH("", controllers.UpdateProfile(userService))
			me.PATCH("/gamertags/visibility", controllers.UpdateGamertagsVisibility(userService))
			me.PUT("/gamertags", controllers.AddGamertag(userService))
			me.DELETE("/gamertags/:platform", controllers.RemoveGamertag(userService))
			me.POST("/favorites", controllers.AddFavoriteGame(userService))
			me.DELETE("/favorites/:gameId", controllers.RemoveFavoriteGame(userService))
		}

		registered.GET("/users/:username", controllers.GetUserByUsername(userService, friendService))
		registered.GET("/users/:username/reviews", controllers.ListUserReviews(reviewService, userService))

		gamesGroup := registered.Group("/games")
		{
			gamesGroup.POST("", controllers.UpsertGame(gameService))
			gamesGroup.GET("", controllers.ListGames(gameService))
			gamesGroup.GET("/:id", controllers.GetGame(gameService))
			gamesGroup.GET("/:id/reviews", controllers.ListGameReviews(reviewService))
			gamesGroup.GET("/:id/reviews/average", controllers.GameReviewAverage(reviewService))
		}

		reviewsGroup := registered.Group("/reviews")
		{
			reviewsGroup.POST("", controllers.CreateReview(reviewService))
			reviewsGroup.GET("/:id", controllers.GetReview(reviewService))
			reviewsGroup.PUT("/:id", controllers.UpdateReview(reviewService))
			reviewsGroup.DELETE("/:id", controllers.DeleteReview(reviewService))
		}

		friendships := registered.Group("/friendships")
		{
			friendships.POST("", controllers.SendFriendRequest(friendService, userService))
			friendships.POST("/:id/accept", controllers.AcceptFriendRequest(friendService))
			friendships.POST("/:id/decline", controllers.DeclineFriendRequest(friendService))
			friendships.DELETE("/:id", controllers.RemoveFriendship(friendService))
			friendships.GET("/friends", controllers.ListFriends(friendService))
			friendships.GET("/requests/received", controllers.ListReceivedRequests(friendService))
			friendships.GET("/requests/sent", controllers.ListSentRequests(friendService))
			friendships.GET("/check/:username", controllers.CheckFriendship(friendService, userService))
		}

		registered.POST("/chat", controllers.Chat(agent))
	}
}
