package http

import (
	"context"
	"net/http"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
	"exoplanet-review/internal/service"
	"exoplanet-review/pkg/middleware"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api/v1", middleware.NewIdentityMiddleware())
	h.SetupAnalysis(base)
	h.SetupCandidates(base)
	h.SetupFeedback(base)
	h.SetupSessions(base)
	h.SetupUploads(base)
}

// errorResponse maps the service error taxonomy onto HTTP status codes.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrBadParameter):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrModelUnavailable):
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, dto.NewBaseResponse(status, err.Error(), nil))
}

func researcherID(c echo.Context) uint {
	id, _ := middleware.ResearcherIDFromContext(c.Request().Context())
	return id
}
