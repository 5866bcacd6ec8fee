package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"exoplanet-review/internal/dto"
)

func (h *HttpAPIHandler) SetupSessions(base *echo.Group) {
	sessionGroup := base.Group("/analysis/sessions")
	sessionGroup.POST("", h.createSession)
	sessionGroup.GET("/:id", h.getSession)
	sessionGroup.PUT("/:id", h.updateSession)
	sessionGroup.DELETE("/:id", h.deleteSession)
	sessionGroup.GET("/candidate/:id", h.getCandidateSessions)
}

func (h *HttpAPIHandler) createSession(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateSessionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	session, err := h.service.SessionService.CreateSession(ctx, researcherID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Analysis session created", session))
}

func (h *HttpAPIHandler) getSession(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid session id"))
	}

	session, err := h.service.SessionService.GetSession(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", session))
}

func (h *HttpAPIHandler) updateSession(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid session id"))
	}

	req := new(dto.UpdateSessionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	session, err := h.service.SessionService.UpdateSession(ctx, researcherID(c), id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Analysis session updated", session))
}

func (h *HttpAPIHandler) deleteSession(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid session id"))
	}

	if err := h.service.SessionService.DeleteSession(ctx, researcherID(c), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Analysis session deleted", nil))
}

func (h *HttpAPIHandler) getCandidateSessions(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	sessions, err := h.service.SessionService.GetCandidateSessions(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", sessions))
}
