package middleware

import (
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides enhanced CORS configuration. Credentials are
// allowed so the admin session cookie survives cross-origin dashboard calls.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: config.AllowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "DNT",
			"Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Content-Disposition", "Cache-Control", "Connection",
		},
	}

	return cors.New(cfg)
}
