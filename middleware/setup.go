package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetUpMiddleware wires the cross-cutting middleware. CORS_ORIGINS is a
// comma-separated allowlist; unset means any origin (dev default).
func SetUpMiddleware(r *gin.Engine) {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	r.Use(cors.New(cfg))
}
