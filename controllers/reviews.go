package controllers

import (
	"net/http"
	"time"

	"gamerscove/middleware"
	models "gamerscove/models/postgres"
	"gamerscove/services/reviews"
	"gamerscove/services/users"
	"gamerscove/utils"

	"github.com/gin-gonic/gin"
)

type reviewResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"userId"`
	GameID    uint   `json:"gameId"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

func newReviewResponse(review *models.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		GameID:    review.GameID,
		Rating:    review.Rating,
		Content:   review.Content,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}

func newReviewResponses(items []models.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(items))
	for i := range items {
		out = append(out, newReviewResponse(&items[i]))
	}
	return out
}

// @Summary Create a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{gameId=integer,rating=integer,content=string} true "Review data, rating 1-10"
// @Success 201 {object} controllers.reviewResponse
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/reviews [post]
func CreateReview(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var body struct {
			GameID  uint   `json:"gameId" binding:"required"`
			Rating  int    `json:"rating" binding:"required"`
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gameId and rating are required"})
			return
		}

		created, err := reviewService.Create(c.Request.Context(), &models.Review{
			UserID:  user.ID,
			GameID:  body.GameID,
			Rating:  body.Rating,
			Content: body.Content,
		})
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newReviewResponse(created))
	}
}

// @Summary Get a review by id
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Review id"
// @Success 200 {object} controllers.reviewResponse
// @Failure 404 {object} object{error=string}
// @Router /api/reviews/{id} [get]
func GetReview(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		review, err := reviewService.FindByID(c.Request.Context(), id)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newReviewResponse(review))
	}
}

// @Summary Update the caller's review
// @Tags reviews
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Review id"
// @Param body body object{rating=integer,content=string} true "New rating and content"
// @Success 200 {object} controllers.reviewResponse
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/reviews/{id} [put]
func UpdateReview(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}

		var body struct {
			Rating  int    `json:"rating" binding:"required"`
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
			return
		}

		updated, err := reviewService.Update(c.Request.Context(), id, user.ID, body.Rating, body.Content)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newReviewResponse(updated))
	}
}

// @Summary Delete the caller's review
// @Tags reviews
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Review id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/reviews/{id} [delete]
func DeleteReview(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		if err := reviewService.Delete(c.Request.Context(), id, user.ID); err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary List a game's reviews
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Game id"
// @Success 200 {array} controllers.reviewResponse
// @Router /api/games/{id}/reviews [get]
func ListGameReviews(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		items, err := reviewService.ListByGame(c.Request.Context(), id)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newReviewResponses(items))
	}
}

// @Summary Average rating for a game
// @Description Rounded to one decimal; 0.0 when the game has no reviews
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Game id"
// @Success 200 {object} object{gameId=integer,average=number}
// @Router /api/games/{id}/reviews/average [get]
func GameReviewAverage(reviewService *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		average, err := reviewService.AverageForGame(c.Request.Context(), id)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gameId": id, "average": average})
	}
}

// @Summary List a user's reviews
// @Tags reviews
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param username path string true "Username"
// @Success 200 {array} controllers.reviewResponse
// @Failure 404 {object} object{error=string}
// @Router /api/users/{username}/reviews [get]
func ListUserReviews(reviewService *reviews.Service, userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := userService.FindByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		items, err := reviewService.ListByUser(c.Request.Context(), owner.ID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newReviewResponses(items))
	}
}
