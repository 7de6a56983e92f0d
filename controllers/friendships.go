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

type friendshipResponse struct {
	ID          uint   `json:"id"`
	RequesterID uint   `json:"requesterId"`
	ReceiverID  uint   `json:"receiverId"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

func newFriendshipResponse(f *models.Friendship) friendshipResponse {
	return friendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		ReceiverID:  f.ReceiverID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}

func newFriendshipResponses(items []models.Friendship) []friendshipResponse {
	out := make([]friendshipResponse, 0, len(items))
	for i := range items {
		out = append(out, newFriendshipResponse(&items[i]))
	}
	return out
}

// @Summary Send a friend request
// @Tags friendships
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{receiverUsername=string} true "Receiver"
// @Success 201 {object} controllers.friendshipResponse
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/friendships [post]
func SendFriendRequest(friendService *friends.Service, userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			ReceiverUsername string `json:"receiverUsername" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receiverUsername is required"})
			return
		}

		receiver, err := userService.FindByUsername(c.Request.Context(), body.ReceiverUsername)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		created, err := friendService.SendFriendRequest(c.Request.Context(), user.ID, receiver.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newFriendshipResponse(created))
	}
}

// @Summary Accept a pending friend request
// @Description Only the receiver may accept
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Friendship id"
// @Success 200 {object} controllers.friendshipResponse
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/friendships/{id}/accept [post]
func AcceptFriendRequest(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		accepted, err := friendService.AcceptFriendRequest(c.Request.Context(), id, user.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newFriendshipResponse(accepted))
	}
}

// @Summary Decline a pending friend request
// @Description Only the receiver may decline
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Friendship id"
// @Success 200 {object} controllers.friendshipResponse
// @Failure 403 {object} object{error=string}
// @Router /api/friendships/{id}/decline [post]
func DeclineFriendRequest(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		declined, err := friendService.DeclineFriendRequest(c.Request.Context(), id, user.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newFriendshipResponse(declined))
	}
}

// @Summary Remove a friendship or cancel a request
// @Description Either participant may remove the record
// @Tags friendships
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Friendship id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/friendships/{id} [delete]
func RemoveFriendship(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		if err := friendService.RemoveFriendship(c.Request.Context(), id, user.ID); err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary List the caller's friends
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} controllers.userResponse
// @Router /api/friendships/friends [get]
func ListFriends(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		friendsList, err := friendService.GetFriends(c.Request.Context(), user.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		out := make([]userResponse, 0, len(friendsList))
		for i := range friendsList {
			// Friends always see each other's gamertags.
			out = append(out, newUserResponse(&friendsList[i], true))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary List pending requests received by the caller
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} controllers.friendshipResponse
// @Router /api/friendships/requests/received [get]
func ListReceivedRequests(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		items, err := friendService.GetPendingReceivedRequests(c.Request.Context(), user.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newFriendshipResponses(items))
	}
}

// @Summary List pending requests sent by the caller
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} controllers.friendshipResponse
// @Router /api/friendships/requests/sent [get]
func ListSentRequests(friendService *friends.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		items, err := friendService.GetPendingSentRequests(c.Request.Context(), user.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newFriendshipResponses(items))
	}
}

// @Summary Check whether the caller is friends with a user
// @Tags friendships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param username path string true "Username"
// @Success 200 {object} object{friends=boolean}
// @Failure 404 {object} object{error=string}
// @Router /api/friendships/check/{username} [get]
func CheckFriendship(friendService *friends.Service, userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		other, err := userService.FindByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		areFriends, err := friendService.AreFriends(c.Request.Context(), user.ID, other.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"friends": areFriends})
	}
}
