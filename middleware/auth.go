package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	models "gamerscove/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	identityKey = "authIdentity"
	userKey     = "currentUser"
)

// Identity is the verified token subject attached to the request context.
type Identity struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

func signingSecret() []byte {
	return []byte(os.Getenv("AUTH_JWT_SECRET"))
}

// AuthRequired verifies the Bearer token and attaches the caller's
// Identity to the context. Requests without a valid token get a 401.
func AuthRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	identity, err := verifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

func verifyToken(raw string) (*Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return signingSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	identity := &Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.UID = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	if identity.UID == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return identity, nil
}

// IssueToken signs a local HS256 token for the identity. Used by the dev
// token endpoint when no external identity provider is configured.
func IssueToken(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":            identity.UID,
		"email":          identity.Email,
		"name":           identity.Name,
		"email_verified": identity.EmailVerified,
		"iat":            now.Unix(),
		"exp":            now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingSecret())
}

// RequireUser loads the local user for the verified identity and attaches
// it to the context. Callers that authenticated but never created a
// profile get a 401 telling them to register.
func RequireUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		var user models.User
		if err := db.Where("firebase_uid = ?", identity.UID).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no profile for this account, create a user first"})
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// CurrentIdentity returns the verified identity set by AuthRequired.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}

// CurrentUser returns the local user set by RequireUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
