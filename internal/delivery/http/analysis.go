package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"exoplanet-review/internal/dto"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	analysisGroup := base.Group("/analysis")
	analysisGroup.POST("/predict/:id", h.triggerPrediction)
	analysisGroup.POST("/predict/batch", h.triggerBatchPrediction)
	analysisGroup.GET("/results/:id", h.getAnalysisResult)
	analysisGroup.PUT("/results/:id/verdict", h.setFinalVerdict)
}

func (h *HttpAPIHandler) triggerPrediction(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	result, err := h.service.InferenceService.TriggerInference(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	// 202 while the classification is still running, 200 for a stored result.
	status := http.StatusOK
	if result.Prediction == "PROCESSING" {
		status = http.StatusAccepted
	}
	return c.JSON(status, dto.NewBaseResponse(status, "Analysis triggered", result))
}

func (h *HttpAPIHandler) triggerBatchPrediction(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BatchPredictionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.InferenceService.TriggerBatchInference(ctx, req.CandidateIDs)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "Batch analysis queued", result))
}

func (h *HttpAPIHandler) getAnalysisResult(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	candidate, err := h.service.CandidateService.GetCandidate(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", candidate))
}

func (h *HttpAPIHandler) setFinalVerdict(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	req := new(dto.VerdictRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.CandidateService.SetFinalVerdict(ctx, id, req.Verdict)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Verdict recorded", result))
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrBadRequest
	}
	return uint(id), nil
}
