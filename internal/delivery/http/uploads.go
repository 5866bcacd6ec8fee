package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"exoplanet-review/internal/dto"
)

func (h *HttpAPIHandler) SetupUploads(base *echo.Group) {
	uploadGroup := base.Group("/uploads")
	uploadGroup.POST("/csv", h.uploadCSV)
}

func (h *HttpAPIHandler) uploadCSV(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("missing file field"))
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("only CSV files are accepted"))
	}
	if max := h.service.CandidateService.MaxUploadBytes(); max > 0 && fileHeader.Size > max {
		return c.JSON(http.StatusRequestEntityTooLarge, dto.NewBaseResponse(
			http.StatusRequestEntityTooLarge, "file exceeds the upload size limit", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("unable to read uploaded file"))
	}
	defer file.Close()

	result, err := h.service.CandidateService.UploadCSV(ctx, researcherID(c), fileHeader.Filename, file)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Upload ingested", result))
}
