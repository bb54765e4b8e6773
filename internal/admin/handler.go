// Package admin serves the internal HTTP endpoints behind the PathX admin
// panel.
package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/roles"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/session"
)

// response is the banner payload the panel renders.
type response struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// seedRequest is the body of POST /api/admin/jobs/seed. Scope defaults to
// all; clearFirst with scope all is refused with 400 unless confirm is set.
type seedRequest struct {
	ClearFirst bool   `json:"clearFirst"`
	Scope      string `json:"scope"`
	Confirm    bool   `json:"confirm"`
}

type promoteResponse struct {
	response
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Created bool   `json:"created"`
}

type Handler struct {
	seeder   *seeding.Service
	promoter *roles.Promoter
	sessions session.Provider
	logger   *zap.Logger
}

func NewHandler(seeder *seeding.Service, promoter *roles.Promoter, sessions session.Provider, logger *zap.Logger) *Handler {
	return &Handler{
		seeder:   seeder,
		promoter: promoter,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the gin engine with CORS for the given panel origins.
func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)

	api := r.Group("/api/admin", h.requireSession)
	{
		jobs := api.Group("/jobs", h.requireSuperAdmin)
		jobs.POST("/seed", h.Seed)
		jobs.DELETE("", h.Clear)

		api.POST("/users/me/promote", h.Promote)
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Seed(c *gin.Context) {
	var req seedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response{Error: "invalid JSON body: " + err.Error()})
			return
		}
	}
	scope, err := seeding.ParseScope(req.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, response{Error: seeding.Message(err)})
		return
	}

	actor := currentSession(c).Email
	res, err := h.seeder.Seed(c.Request.Context(), seeding.SeedOptions{
		ClearFirst: req.ClearFirst,
		Clear:      seeding.ClearOptions{Scope: scope, Confirmed: req.Confirm},
		Actor:      actor,
	})
	if err != nil {
		c.JSON(statusFor(err), response{Success: false, Count: 0, Error: res.Error})
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Count: res.Count})
}

func (h *Handler) Clear(c *gin.Context) {
	scope, err := seeding.ParseScope(c.Query("scope"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response{Error: seeding.Message(err)})
		return
	}
	confirmed, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))

	res, err := h.seeder.Clear(c.Request.Context(), seeding.ClearOptions{
		Scope:     scope,
		Confirmed: confirmed,
		Actor:     currentSession(c).Email,
	})
	if err != nil {
		c.JSON(statusFor(err), response{Success: false, Count: res.Deleted, Error: seeding.Message(err)})
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Count: res.Deleted})
}

func (h *Handler) Promote(c *gin.Context) {
	res, err := h.promoter.PromoteCurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), response{Success: false, Error: seeding.Message(err)})
		return
	}
	c.JSON(http.StatusOK, promoteResponse{
		response: response{Success: true, Count: 1},
		UserID:   res.UserID,
		Email:    res.Email,
		Created:  res.Created,
	})
}

func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrTypeNoSession:
		return http.StatusUnauthorized
	case errors.ErrTypeUnauthorized:
		return http.StatusForbidden
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
