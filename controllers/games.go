package controllers

import (
	"net/http"
	"time"

	models "gamerscove/models/postgres"
	"gamerscove/services/games"
	"gamerscove/utils"

	"github.com/gin-gonic/gin"
)

type gameResponse struct {
	ID            uint     `json:"id"`
	ExternalAPIID string   `json:"externalApiId"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	ReleaseDate   *string  `json:"releaseDate"`
	Platforms     []string `json:"platforms"`
	Genres        []string `json:"genres"`
}

func newGameResponse(game *models.Game) gameResponse {
	resp := gameResponse{
		ID:            game.ID,
		ExternalAPIID: game.ExternalAPIID,
		Title:         game.Title,
		Description:   game.Description,
		CoverImageURL: game.CoverImageURL,
		Platforms:     game.PlatformList(),
		Genres:        game.GenreList(),
	}
	if game.ReleaseDate != nil {
		formatted := game.ReleaseDate.Format("2006-01-02")
		resp.ReleaseDate = &formatted
	}
	return resp
}

func newGameResponses(items []models.Game) []gameResponse {
	out := make([]gameResponse, 0, len(items))
	for i := range items {
		out = append(out, newGameResponse(&items[i]))
	}
	return out
}

// @Summary Create or update a catalog entry
// @Description Upserts by external id; an existing entry is refreshed in place
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{externalApiId=string,title=string,description=string,coverImageUrl=string,releaseDate=string,platforms=[]string,genres=[]string} true "Game data"
// @Success 201 {object} controllers.gameResponse
// @Failure 400 {object} object{error=string}
// @Router /api/games [post]
func UpsertGame(gameService *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			ExternalAPIID string   `json:"externalApiId" binding:"required"`
			Title         string   `json:"title" binding:"required"`
			Description   string   `json:"description"`
			CoverImageURL string   `json:"coverImageUrl"`
			ReleaseDate   string   `json:"releaseDate"`
			Platforms     []string `json:"platforms"`
			Genres        []string `json:"genres"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "externalApiId and title are required"})
			return
		}

		game := &models.Game{
			ExternalAPIID: body.ExternalAPIID,
			Title:         body.Title,
			Description:   body.Description,
			CoverImageURL: body.CoverImageURL,
		}
		if body.ReleaseDate != "" {
			released, err := time.Parse("2006-01-02", body.ReleaseDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "releaseDate must be YYYY-MM-DD"})
				return
			}
			game.ReleaseDate = &released
		}
		game.SetPlatformList(body.Platforms)
		game.SetGenreList(body.Genres)

		saved, err := gameService.Upsert(c.Request.Context(), game)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newGameResponse(saved))
	}
}

// @Summary Get a game by id
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path integer true "Game id"
// @Success 200 {object} controllers.gameResponse
// @Failure 404 {object} object{error=string}
// @Router /api/games/{id} [get]
func GetGame(gameService *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		game, err := gameService.FindByID(c.Request.Context(), id)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newGameResponse(game))
	}
}

// @Summary List the catalog, or search it by title
// @Description With ?title= the closest catalog match is returned as a one-element list
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param title query string false "Approximate title to search for"
// @Success 200 {array} controllers.gameResponse
// @Router /api/games [get]
func ListGames(gameService *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if title := c.Query("title"); title != "" {
			game, err := gameService.ResolveByApproximateTitle(ctx, title)
			if err != nil {
				utils.AbortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, newGameResponses([]models.Game{*game}))
			return
		}

		items, err := gameService.List(ctx)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newGameResponses(items))
	}
}
