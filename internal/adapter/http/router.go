package http

import (
	"time"

	"digilib-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Routes struct {
	Health       *Handler
	LoanRequests *LoanRequestHandler
	Books        *BookHandler

	JWTSecret      []byte
	Redis          *redis.Client // nil disables idempotency
	IdempotencyTTL time.Duration
}

// NewEcho returns an echo instance with the validator and json-iterator wired.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.JSONSerializer = JSONSerializer{}
	return e
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api", middleware.JWTAuth(r.JWTSecret))
	if r.Redis != nil {
		api.Use(middleware.IdempotencyMiddleware(r.Redis, r.IdempotencyTTL))
	}
	admin := middleware.RequireRole(middleware.RoleAdmin)

	lr := api.Group("/loan-requests")
	lr.POST("", r.LoanRequests.Submit)
	lr.GET("", r.LoanRequests.List)
	lr.GET("/stats", r.LoanRequests.Stats)
	lr.GET("/:id", r.LoanRequests.Get)
	lr.GET("/:id/history", r.LoanRequests.History)
	lr.PUT("/:id/approve", r.LoanRequests.Approve, admin)
	lr.PUT("/:id/reject", r.LoanRequests.Reject, admin)
	lr.PUT("/:id/loan", r.LoanRequests.MarkLoaned, admin)
	lr.PUT("/:id/return", r.LoanRequests.Return, admin)

	api.GET("/books/available", r.Books.Available)
}
