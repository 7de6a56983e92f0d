package controllers

import (
	"net/http"
	"time"

	"gamerscove/middleware"
	models "gamerscove/models/postgres"
	"gamerscove/services/friends"
	"gamerscove/services/users"
	"gamerscove/utils"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	ID                  uint              `json:"id"`
	Username            string            `json:"username"`
	Bio                 string            `json:"bio,omitempty"`
	AvatarURL           string            `json:"avatarUrl,omitempty"`
	PreferredPlatforms  []string          `json:"preferredPlatforms"`
	FavoriteGameIDs     []uint            `json:"favoriteGameIds"`
	GamertagsVisibility string            `json:"gamertagsVisibility"`
	Gamertags           map[string]string `json:"gamertags,omitempty"`
	CreatedAt           string            `json:"createdAt"`
}

// newUserResponse shapes a user for the API. Gamertags are included only
// when the caller passed the visibility check.
func newUserResponse(user *models.User, includeGamertags bool) userResponse {
	resp := userResponse{
		ID:                  user.ID,
		Username:            user.Username,
		Bio:                 user.Bio,
		AvatarURL:           user.AvatarURL,
		PreferredPlatforms:  user.PlatformList(),
		FavoriteGameIDs:     user.FavoriteGames(),
		GamertagsVisibility: string(user.GamertagsVisibility),
		CreatedAt:           user.CreatedAt.Format(time.RFC3339),
	}
	if includeGamertags {
		resp.Gamertags = user.GamertagMap()
	}
	return resp
}

// @Summary Create the caller's user profile
// @Description Creates the local profile bound to the authenticated identity
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{username=string,bio=string,avatarUrl=string} true "Profile data"
// @Success 201 {object} controllers.userResponse
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/users [post]
func CreateUser(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.CurrentIdentity(c)

		var body struct {
			Username  string `json:"username" binding:"required"`
			Bio       string `json:"bio"`
			AvatarURL string `json:"avatarUrl"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		user := &models.User{
			FirebaseUID: identity.UID,
			Username:    body.Username,
			Bio:         body.Bio,
			AvatarURL:   body.AvatarURL,
		}
		created, err := userService.Create(c.Request.Context(), user)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newUserResponse(created, true))
	}
}

// @Summary Get the caller's own profile
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} controllers.userResponse
// @Failure 401 {object} object{error=string}
// @Router /api/users/me [get]
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, newUserResponse(user, true))
	}
}

// @Summary Get a user's public profile
// @Description Gamertags appear only when the profile is public or the caller is a friend
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param username path string true "Username"
// @Success 200 {object} controllers.userResponse
// @Failure 404 {object} object{error=string}
// @Router /api/users/{username} [get]
func GetUserByUsername(userService *users.Service, friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := userService.FindByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		viewer, _ := middleware.CurrentUser(c)
		canView, err := friendService.CanViewGamertags(c.Request.Context(), owner.ID, viewer.ID, owner.GamertagsVisibility)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, newUserResponse(owner, canView))
	}
}

// @Summary Update the caller's profile
// @Description Partial update; omitted fields are untouched
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{bio=string,avatarUrl=string,preferredPlatforms=[]string,favoriteGameIds=[]integer} true "Fields to change"
// @Success 200 {object} controllers.userResponse
// @Failure 400 {object} object{error=string}
// @Router /api/users/me [patch]
func UpdateProfile(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			Bio                *string  `json:"bio"`
			AvatarURL          *string  `json:"avatarUrl"`
			PreferredPlatforms []string `json:"preferredPlatforms"`
			FavoriteGameIDs    []uint   `json:"favoriteGameIds"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
			return
		}

		updated, err := userService.UpdateProfile(c.Request.Context(), user.ID, users.ProfileUpdate{
			Bio:                body.Bio,
			AvatarURL:          body.AvatarURL,
			PreferredPlatforms: body.PreferredPlatforms,
			FavoriteGameIDs:    body.FavoriteGameIDs,
		})
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}

// @Summary Set gamertags visibility
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{visibility=string} true "PUBLIC or FRIENDS"
// @Success 200 {object} controllers.userResponse
// @Failure 400 {object} object{error=string}
// @Router /api/users/me/gamertags/visibility [patch]
func UpdateGamertagsVisibility(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			Visibility string `json:"visibility" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "visibility is required"})
			return
		}

		updated, err := userService.UpdateGamertagsVisibility(c.Request.Context(), user.ID, models.GamertagsVisibility(body.Visibility))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}

// @Summary Add or replace a gamertag
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{platform=string,gamertag=string} true "Platform and tag"
// @Success 200 {object} controllers.userResponse
// @Failure 400 {object} object{error=string}
// @Router /api/users/me/gamertags [put]
func AddGamertag(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			Platform string `json:"platform" binding:"required"`
			Gamertag string `json:"gamertag" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "platform and gamertag are required"})
			return
		}

		updated, err := userService.AddGamertag(c.Request.Context(), user.ID, body.Platform, body.Gamertag)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}

// @Summary Remove a gamertag
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param platform path string true "Platform"
// @Success 200 {object} controllers.userResponse
// @Router /api/users/me/gamertags/{platform} [delete]
func RemoveGamertag(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		updated, err := userService.RemoveGamertag(c.Request.Context(), user.ID, c.Param("platform"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}

// @Summary Add a game to the caller's favorites
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{gameId=integer} true "Game id"
// @Success 200 {object} controllers.userResponse
// @Failure 404 {object} object{error=string}
// @Router /api/users/me/favorites [post]
func AddFavoriteGame(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			GameID uint `json:"gameId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gameId is required"})
			return
		}

		updated, err := userService.AddFavoriteGame(c.Request.Context(), user.ID, body.GameID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}

// @Summary Remove a game from the caller's favorites
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameId path integer true "Game id"
// @Success 200 {object} controllers.userResponse
// @Router /api/users/me/favorites/{gameId} [delete]
func RemoveFavoriteGame(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		gameID, ok := parseUintParam(c, "gameId")
		if !ok {
			return
		}
		updated, err := userService.RemoveFavoriteGame(c.Request.Context(), user.ID, gameID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(updated, true))
	}
}
