package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	"github.com/yanqian/celestial-scale/internal/domain/weighin"
	apperrors "github.com/yanqian/celestial-scale/pkg/errors"
)

const pageTemplate = "index.html.tmpl"

type pageData struct {
	Bodies []bodies.BodyRecord
	View   *weighin.View
	Alert  string
	Form   weighin.SubmitRequest
}

// Page renders the form and, when the visitor has results, the carousel modal.
func (h *Handler) Page(c *gin.Context) {
	data := pageData{Bodies: h.catalog.AllBodies()}
	view, err := h.weighinSvc.Current(c.Request.Context(), sessionID(c))
	switch {
	case err == nil:
		data.View = &view
		data.Form.Name = view.Name
	case apperrors.IsCode(err, apperrors.CodeNoResults):
	default:
		h.logger.Error("load carousel failed", "error", err)
		data.Alert = "We could not load your results. Please try again."
	}
	c.HTML(http.StatusOK, pageTemplate, data)
}

// SubmitForm handles the HTML form post.
func (h *Handler) SubmitForm(c *gin.Context) {
	var req weighin.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderAlert(c, http.StatusBadRequest, req, "Please enter all the details correctly.")
		return
	}
	if _, err := h.weighinSvc.Submit(c.Request.Context(), sessionID(c), req); err != nil {
		var verr *weighin.ValidationError
		if errors.As(err, &verr) {
			h.renderAlert(c, http.StatusBadRequest, req, alertText(verr))
			return
		}
		h.logger.Error("weigh-in submit failed", "error", err)
		h.renderAlert(c, http.StatusServiceUnavailable, req, "We could not save your results. Please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// NextForm advances the carousel from the page controls.
func (h *Handler) NextForm(c *gin.Context) {
	h.navigateForm(c, h.weighinSvc.Next)
}

// PreviousForm moves the carousel back from the page controls.
func (h *Handler) PreviousForm(c *gin.Context) {
	h.navigateForm(c, h.weighinSvc.Previous)
}

// CloseForm hides the modal.
func (h *Handler) CloseForm(c *gin.Context) {
	h.navigateForm(c, h.weighinSvc.Close)
}

func (h *Handler) navigateForm(c *gin.Context, fn func(ctx context.Context, sessionID string) (weighin.View, error)) {
	if _, err := fn(c.Request.Context(), sessionID(c)); err != nil && !apperrors.IsCode(err, apperrors.CodeNoResults) {
		h.logger.Error("carousel navigation failed", "path", c.Request.URL.Path, "error", err)
		h.renderAlert(c, http.StatusServiceUnavailable, weighin.SubmitRequest{}, "We could not update the carousel. Please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) renderAlert(c *gin.Context, status int, form weighin.SubmitRequest, alert string) {
	c.HTML(status, pageTemplate, pageData{
		Bodies: h.catalog.AllBodies(),
		Alert:  alert,
		Form:   form,
	})
}

func alertText(verr *weighin.ValidationError) string {
	msg := verr.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
