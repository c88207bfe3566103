package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/yildizm/xraylab/internal/analysis"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/preview"
)

const serviceName = "X-ray ML Analysis Research API"

// researchNotice is the banner disclaimer returned by the root endpoint
const researchNotice = "FOR RESEARCH USE ONLY - NOT FOR CLINICAL DIAGNOSIS"

// condition is one scored label of the placeholder model
type condition struct {
	Name       string
	Confidence float64
}

// placeholderConditions are the labels the research model reports for every upload
var placeholderConditions = []condition{
	{Name: "No significant findings", Confidence: 0.92},
	{Name: "Pneumonia", Confidence: 0.07},
}

// formatConditions renders conditions as a single metadata value
func formatConditions(conds []condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", c.Name, c.Confidence))
	}
	return strings.Join(parts, ", ")
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    serviceName,
		"status":     "operational",
		"version":    s.opts.Version,
		"disclaimer": researchNotice,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format("2006-01-02T15:04:05.000000"),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.Snapshot())
}

// handleAnalyze counts every upload as completed, rejected (4xx) or failed
func (s *Server) handleAnalyze(c echo.Context) error {
	done := s.stats.Track()
	err := s.analyze(c)

	var apiErr *APIError
	done(err, errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError)
	return err
}

// analyze validates the uploaded file and answers with the placeholder
// result. The upload is sniffed but never stored.
func (s *Server) analyze(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return NewBadRequestError("file field is required", nil)
		}
		return NewBadRequestError("invalid multipart body", err)
	}

	if !preview.IsAccepted(header.Filename) {
		return NewUnsupportedFileError(header.Filename)
	}
	if header.Size > s.opts.MaxUploadBytes {
		return NewTooLargeError(header.Size, s.opts.MaxUploadBytes)
	}

	src, err := header.Open()
	if err != nil {
		return NewInternalError("failed to open upload", err)
	}
	defer func() { _ = src.Close() }()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return NewInternalError("failed to inspect upload", err)
	}

	id := uuid.New().String()
	result := analysis.Placeholder()
	result.Metadata.Set("mode", "service")
	result.Metadata.Set("analysis_id", id)
	result.Metadata.Set("filename", header.Filename)
	result.Metadata.Set("mime_type", mtype.String())
	result.Metadata.Set("conditions", formatConditions(placeholderConditions))

	s.log.InfoWithFields("analysis served", []logger.Field{
		logger.F("analysis_id", id),
		logger.FileField(header.Filename),
		logger.F("size", header.Size),
	})

	return c.JSON(http.StatusOK, result)
}
