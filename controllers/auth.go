package controllers

import (
	"net/http"
	"os"
	"time"

	"gamerscove/middleware"
	"gamerscove/services/users"
	"gamerscove/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const devTokenTTL = 24 * time.Hour

// @Summary Issue a local development token
// @Description Available only when AUTH_DEV_PASSWORD_HASH is configured; checks the shared dev password and signs a token for the named user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object{username=string,password=string} true "Credentials"
// @Success 200 {object} object{token=string,expiresIn=integer}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/auth/token [post]
func DevToken(userService *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		passwordHash := os.Getenv("AUTH_DEV_PASSWORD_HASH")
		if passwordHash == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "local token issuing is not enabled"})
			return
		}

		var body struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		user, err := userService.FindByUsername(c.Request.Context(), body.Username)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		token, err := middleware.IssueToken(middleware.Identity{
			UID:           user.FirebaseUID,
			Name:          user.Username,
			EmailVerified: true,
		}, devTokenTTL)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"expiresIn": int(devTokenTTL.Seconds()),
		})
	}
}
