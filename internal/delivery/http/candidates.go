package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"exoplanet-review/internal/dto"
	"exoplanet-review/internal/model"
)

func (h *HttpAPIHandler) SetupCandidates(base *echo.Group) {
	candidateGroup := base.Group("/candidates")
	candidateGroup.GET("", h.listCandidates)
	candidateGroup.GET("/:id", h.getCandidate)
	candidateGroup.DELETE("/:id", h.deleteCandidate)
}

func (h *HttpAPIHandler) listCandidates(c echo.Context) error {
	ctx := c.Request().Context()

	var param model.ListCandidatesParam
	if raw := c.QueryParam("status"); raw != "" {
		status := model.AnalysisStatus(raw)
		param.Status = &status
	}
	if raw := c.QueryParam("verdict"); raw != "" {
		verdict := model.FinalVerdict(raw)
		param.Verdict = &verdict
	}
	if raw := c.QueryParam("researcher_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid researcher_id"))
		}
		rid := uint(id)
		param.ResearcherID = &rid
	}
	param.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	param.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if param.Limit <= 0 || param.Limit > 500 {
		param.Limit = 100
	}

	candidates, err := h.service.CandidateService.ListCandidates(ctx, param)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", candidates))
}

func (h *HttpAPIHandler) getCandidate(c echo.Context) error {
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

func (h *HttpAPIHandler) deleteCandidate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid candidate id"))
	}

	if err := h.service.CandidateService.DeleteCandidate(ctx, id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Candidate deleted", nil))
}
