package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	"github.com/yanqian/celestial-scale/internal/domain/weighin"
	apperrors "github.com/yanqian/celestial-scale/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	weighinSvc weighin.Service
	catalog    *bodies.Catalog
	images     bodies.ImageStore
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(weighinSvc weighin.Service, catalog *bodies.Catalog, images bodies.ImageStore, logger *slog.Logger) *Handler {
	return &Handler{
		weighinSvc: weighinSvc,
		catalog:    catalog,
		images:     images,
		logger:     logger.With("component", "http.handler"),
	}
}

// ListBodies returns the metrics table in display order.
func (h *Handler) ListBodies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bodies": h.catalog.AllBodies()})
}

// GetBody returns one body by id.
func (h *Handler) GetBody(c *gin.Context) {
	body, err := h.catalog.Lookup(c.Param("id"))
	if err != nil {
		var nf *bodies.NotFoundError
		if errors.As(err, &nf) {
			err = apperrors.Wrap(apperrors.CodeNotFound, "unknown body", err)
		}
		abortWithError(c, fromDomainError(err, "lookup_failed"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// PreviewWeighIn computes every slide without touching the session.
func (h *Handler) PreviewWeighIn(c *gin.Context) {
	var req weighin.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	preview, err := h.weighinSvc.Preview(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "weighin_failed"))
		return
	}
	c.JSON(http.StatusOK, preview)
}

// SubmitWeighIn loads a fresh carousel for the visitor.
func (h *Handler) SubmitWeighIn(c *gin.Context) {
	var req weighin.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.weighinSvc.Submit(c.Request.Context(), sessionID(c), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "weighin_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// CurrentSlide returns the slide the visitor is looking at.
func (h *Handler) CurrentSlide(c *gin.Context) {
	h.respondView(c, h.weighinSvc.Current)
}

// NextSlide advances the carousel.
func (h *Handler) NextSlide(c *gin.Context) {
	h.respondView(c, h.weighinSvc.Next)
}

// PreviousSlide moves the carousel back.
func (h *Handler) PreviousSlide(c *gin.Context) {
	h.respondView(c, h.weighinSvc.Previous)
}

// CloseCarousel hides the modal but keeps the results.
func (h *Handler) CloseCarousel(c *gin.Context) {
	h.respondView(c, h.weighinSvc.Close)
}

// Image streams a body's artwork.
func (h *Handler) Image(c *gin.Context) {
	img, err := h.images.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, bodies.ErrImageNotFound) {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "image not found", err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadGateway, "image_unavailable", "image storage unavailable", err))
		return
	}
	defer img.Body.Close()
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, img.Size, img.ContentType, img.Body, nil)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "bodies": h.catalog.Len()})
}

type viewFunc func(ctx context.Context, sessionID string) (weighin.View, error)

func (h *Handler) respondView(c *gin.Context, fn viewFunc) {
	view, err := fn(c.Request.Context(), sessionID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err, "carousel_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

func validationReasons(err error) []weighin.FieldError {
	var verr *weighin.ValidationError
	if errors.As(err, &verr) {
		return verr.Reasons
	}
	return nil
}
