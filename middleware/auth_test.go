package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	models "gamerscove/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	r := gin.New()
	r.GET("/identity", AuthRequired, func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"uid": identity.UID})
	})
	r.GET("/profile", AuthRequired, RequireUser(db), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r, db
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r, _ := newAuthRouter(t)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "/identity", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(r, "/identity", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := IssueToken(Identity{UID: "uid-1"}, -time.Minute)
		require.NoError(t, err)
		w := doRequest(r, "/identity", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := IssueToken(Identity{UID: "uid-1", Email: "a@b.c"}, time.Hour)
		require.NoError(t, err)
		w := doRequest(r, "/identity", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "uid-1")
	})
}

func TestRequireUser(t *testing.T) {
	r, db := newAuthRouter(t)

	token, err := IssueToken(Identity{UID: "uid-1"}, time.Hour)
	require.NoError(t, err)

	t.Run("authenticated but unregistered", func(t *testing.T) {
		w := doRequest(r, "/profile", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("registered user attached", func(t *testing.T) {
		require.NoError(t, db.Create(&models.User{FirebaseUID: "uid-1", Username: "ana"}).Error)

		w := doRequest(r, "/profile", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ana")
	})
}
