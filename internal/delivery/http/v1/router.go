package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"cvchain-backend/config"
	"cvchain-backend/internal/delivery/http/middleware"
	"cvchain-backend/pkg/auth"
)

type RouterDeps struct {
	Ledger   Ledger
	Tokens   *auth.Manager
	Validate *validator.Validate
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(middleware.SecurityHeaders())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Login gets its own, tighter limit: it is the credential-guessing
	// surface.
	loginLimited := v1.Group("")
	loginLimited.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitLoginThreshold,
		Window:    time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second,
		KeyPrefix: "rl:login:",
	}))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	NewLedgerHandler(v1, deps.Ledger)
	NewAuthHandler(v1, loginLimited, deps.Ledger, deps.Tokens)
	NewUserHandler(v1, protected, deps.Ledger, deps.Validate)
	NewJobHandler(v1, protected, deps.Ledger, deps.Validate)

	return r
}
