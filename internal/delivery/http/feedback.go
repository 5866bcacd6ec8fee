package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"exoplanet-review/internal/dto"
)

func (h *HttpAPIHandler) SetupFeedback(base *echo.Group) {
	feedbackGroup := base.Group("/feedback")
	feedbackGroup.POST("", h.submitFeedback)
	feedbackGroup.GET("/:id", h.getFeedback)
	feedbackGroup.PUT("/:id", h.updateFeedback)
	feedbackGroup.DELETE("/:id", h.deleteFeedback)
	feedbackGroup.GET("/candidate/:id", h.getCandidateFeedback)
	feedbackGroup.GET("/consensus/:id", h.getConsensus)
	feedbackGroup.GET("/researcher/:id/stats", h.getResearcherStats)
}

func (h *HttpAPIHandler) submitFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.SubmitFeedbackRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	feedback, err := h.service.FeedbackService.SubmitFeedback(ctx, researcherID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Feedback submitted", feedback))
}

func (h *HttpAPIHandler) getFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid feedback id"))
	}

	feedback, err := h.service.FeedbackService.GetFeedback(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", feedback))
}

func (h *HttpAPIHandler) updateFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid feedback id"))
	}

	req := new(dto.UpdateFeedbackRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	feedback, err := h.service.FeedbackService.UpdateFeedback(ctx, researcherID(c), id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Feedback updated", feedback))
}

func (h *HttpAPIHandler) deleteFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid feedback id"))
	}

	if err := h.service.FeedbackService.DeleteFeedback(ctx, researcherID(c), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Feedback deleted", nil))
}

func (h *HttpAPIHandler) getCandidateFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	entries, err := h.service.FeedbackService.GetCandidateFeedback(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", entries))
}

func (h *HttpAPIHandler) getConsensus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	consensus, err := h.service.FeedbackService.GetConsensus(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", consensus))
}

func (h *HttpAPIHandler) getResearcherStats(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid researcher id"))
	}

	stats, err := h.service.FeedbackService.GetResearcherStats(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", stats))
}
