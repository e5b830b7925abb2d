package http

import (
	"github.com/EternisAI/silo-auth/internal/api/http/handler"
	"github.com/EternisAI/silo-auth/internal/api/http/middleware"
	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/EternisAI/silo-auth/internal/openapi"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	AuthService *auth.Service
	JWTSecret   string
	// AdminAPIKey guards /auth/create-keypair when set.
	AdminAPIKey string
	Ping        handler.PingFunc
	Version     string
}

func SetupRoute(engine *gin.Engine, srvs *Services) error {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Metrics())

	healthHandler := handler.NewHealthHandler(srvs.Ping)
	engine.GET("/health", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	openAPIHandler, err := handler.NewOpenAPIHandler(openapi.Document(srvs.Version, ""))
	if err != nil {
		return err
	}
	engine.GET("/api/openapi.json", openAPIHandler.JSON)
	engine.GET("/api/openapi.yaml", openAPIHandler.YAML)

	if srvs.AuthService != nil {
		authHandler := handler.NewAuthHandler(srvs.AuthService)
		authGroup := engine.Group("/auth")
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signup", authHandler.Signup)

		if srvs.AdminAPIKey != "" {
			authGroup.POST("/create-keypair", middleware.AdminKeyAuth(srvs.AdminAPIKey), authHandler.CreateKeyPair)
		} else {
			authGroup.POST("/create-keypair", authHandler.CreateKeyPair)
		}

		authGroup.GET("/session", middleware.JWTAuth(srvs.JWTSecret), authHandler.Session)
	}
	return nil
}
