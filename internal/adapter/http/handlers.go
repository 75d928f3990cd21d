package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/vrn-registry/internal/content"
	"github.com/couchcryptid/vrn-registry/internal/directory"
	"github.com/couchcryptid/vrn-registry/internal/domain"
	"github.com/couchcryptid/vrn-registry/internal/signup"
	"github.com/gin-gonic/gin"
)

// Directory is the provider registry the API reads from.
type Directory interface {
	Snapshot() directory.Snapshot
	Refresh(ctx context.Context) error
	Submit(state domain.SearchState) domain.SearchState
	CheckReadiness(ctx context.Context) error
}

// SignupService accepts sign-up requests.
type SignupService interface {
	Submit(ctx context.Context, role, email, location string) (signup.Submission, error)
}

// Pages serves informational content by slug.
type Pages interface {
	Page(slug string) (content.Page, bool)
}

// Handler holds the dependencies of the API routes.
type Handler struct {
	raw     domain.RawSource
	dir     Directory
	signups SignupService
	pages   Pages
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(raw domain.RawSource, dir Directory, signups SignupService, pages Pages, logger *slog.Logger) *Handler {
	return &Handler{raw: raw, dir: dir, signups: signups, pages: pages, logger: logger}
}

type errorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

type searchResponse struct {
	Query   domain.Query      `json:"query"`
	Results []domain.Provider `json:"results"`
	Count   int               `json:"count"`
}

type signupRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email" binding:"required"`
	Location string `json:"location" binding:"required"`
}

const signupConfirmation = "We'll email you when verified providers are added or updated in your area."

// GetProviders proxies the upstream record set unchanged.
func (h *Handler) GetProviders(c *gin.Context) {
	data, err := h.raw.FetchRaw(c.Request.Context())
	if err != nil {
		h.logger.Error("provider passthrough failed", "error", err)
		status, resp := fetchErrorResponse(err)
		c.JSON(status, resp)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func fetchErrorResponse(err error) (int, errorResponse) {
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusInternalServerError, errorResponse{
			Error:   "Missing Airtable configuration",
			Details: "missing: " + strings.Join(cfgErr.Missing, ", "),
		}
	}

	resp := errorResponse{Error: "Failed to load providers"}
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		resp.Status = fetchErr.Status
		resp.Details = fetchErr.Details
		if fetchErr.Status != 0 {
			return http.StatusBadGateway, resp
		}
	}
	return http.StatusInternalServerError, resp
}

// GetDirectory returns the current provider snapshot.
func (h *Handler) GetDirectory(c *gin.Context) {
	c.JSON(http.StatusOK, h.dir.Snapshot())
}

// RefreshDirectory reloads providers from the record store. On failure the
// previous providers are kept and returned with the error message.
func (h *Handler) RefreshDirectory(c *gin.Context) {
	if err := h.dir.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, h.dir.Snapshot())
		return
	}
	c.JSON(http.StatusOK, h.dir.Snapshot())
}

// Search runs one submitted search against the loaded providers.
func (h *Handler) Search(c *gin.Context) {
	disaster := domain.DefaultDisaster
	if raw := c.Query("disaster"); strings.TrimSpace(raw) != "" {
		parsed, err := domain.ParseDisasterCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "Unknown disaster category", Details: err.Error()})
			return
		}
		disaster = parsed
	}

	state := domain.NewSearchState()
	state = domain.Reduce(state, domain.SetDisaster{Disaster: disaster})
	state = domain.Reduce(state, domain.SetLocation{Location: c.Query("location")})
	state = h.dir.Submit(state)

	c.JSON(http.StatusOK, searchResponse{
		Query:   state.Submitted,
		Results: state.Results,
		Count:   len(state.Results),
	})
}

// GetCategories lists the disaster categories a search may select.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": domain.DisasterCategories(),
		"default":    domain.DefaultDisaster,
	})
}

// GetPage returns an informational page by slug.
func (h *Handler) GetPage(c *gin.Context) {
	page, ok := h.pages.Page(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Signup accepts a provider or family sign-up.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid sign-up request", Details: err.Error()})
		return
	}

	sub, err := h.signups.Submit(c.Request.Context(), req.Role, req.Email, req.Location)
	if err != nil {
		var vErr *signup.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to record sign-up"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      sub.ID,
		"role":    sub.Role,
		"message": "Thanks, you're in",
		"details": signupConfirmation,
	})
}
