package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/SergeiKhy/alias-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body."

type AliasHandler struct {
	service service.AliasService
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewAliasHandler(service service.AliasService, baseURL string, logger *zap.Logger) *AliasHandler {
	return &AliasHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type CreateAliasRequest struct {
	Alias string `json:"alias"`
	URL   string `json:"url"`
}

type AliasResponse struct {
	ID          int64     `json:"id"`
	Alias       string    `json:"alias"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateAlias godoc
// @Summary Create an alias
// @Description Validate a URL, check that it is reachable and store it under a custom alias
// @Tags aliases
// @Accept json
// @Produce json
// @Param request body CreateAliasRequest true "Alias creation request"
// @Success 201 {object} AliasResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/aliases [post]
func (h *AliasHandler) CreateAlias(c *gin.Context) {
	var req CreateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	record, err := h.service.CreateAlias(c.Request.Context(), req.Alias, req.URL, h.now())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(record))
}

// GetAlias godoc
// @Summary Get an alias
// @Description Look up the record stored under an alias
// @Tags aliases
// @Produce json
// @Param alias path string true "Alias"
// @Success 200 {object} AliasResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/aliases/{alias} [get]
func (h *AliasHandler) GetAlias(c *gin.Context) {
	record, err := h.service.ResolveAlias(c.Request.Context(), c.Param("alias"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(record))
}

// Redirect godoc
// @Summary Redirect to original URL
// @Description Redirect to the original URL stored under the alias
// @Tags aliases
// @Produce json
// @Param alias path string true "Alias"
// @Success 302 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /{alias} [get]
func (h *AliasHandler) Redirect(c *gin.Context) {
	alias := c.Param("alias")

	record, err := h.service.ResolveAlias(c.Request.Context(), alias)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, record.OriginalURL)
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/health [get]
func (h *AliasHandler) HealthCheck(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "alias-shortener"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "alias-shortener"})
}

// NotFound отвечает на пути, которые не совпали ни с одним маршрутом
func (h *AliasHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: service.MsgAliasNotFound})
}

func (h *AliasHandler) renderError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		h.logger.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindNotFound:
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("kind", svcErr.Kind.String()), zap.Error(err))
	} else {
		h.logger.Debug("Request rejected", zap.String("kind", svcErr.Kind.String()), zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Error: svcErr.Message})
}

func (h *AliasHandler) toResponse(record *models.Alias) AliasResponse {
	return AliasResponse{
		ID:          record.ID,
		Alias:       record.Alias,
		OriginalURL: record.OriginalURL,
		ShortURL:    h.baseURL + "/" + url.PathEscape(record.Alias),
		CreatedAt:   record.CreatedAt,
	}
}
