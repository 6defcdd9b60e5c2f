package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthshield-server/internal/domain"
)

// handleHome returns service metadata listing the available endpoints.
func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "HealthShield Backend API",
		"version": "1.0",
		"endpoints": gin.H{
			"health_check":     "/health",
			"analyze_symptoms": "/api/analyze (POST)",
			"reports":          "/api/reports (GET)",
		},
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if err := s.health.Ping(c.Request.Context()); err != nil {
		s.logger.WithError(err).Warn("Health check: report store unreachable")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAnalyze accepts a symptom submission, runs the analysis workflow
// and returns the summary.
func (s *Server) handleAnalyze(c *gin.Context) {
	var sub domain.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	result, err := s.reports.Submit(c.Request.Context(), &sub)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   ve.Message,
			})
			return
		}

		s.logger.WithFields(map[string]interface{}{
			"correlation_id": c.GetString("correlation_id"),
			"error":          err,
		}).Error("Analyze request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"report_id":         result.ReportID,
		"risk_level":        result.RiskTier,
		"risk_score":        result.RiskScore,
		"matching_diseases": result.MatchingDiseases,
		"sms_alert_sent":    result.NotificationSent,
		"message":           result.Message,
	})
}

// handleReports lists stored reports, newest first.
func (s *Server) handleReports(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	result, err := s.reports.ListReports(c.Request.Context(), page, perPage)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"correlation_id": c.GetString("correlation_id"),
			"error":          err,
		}).Error("Reports request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"reports":      result.Items,
		"total":        result.Total,
		"pages":        result.Pages,
		"current_page": result.Page,
	})
}

// queryInt parses an integer query parameter, falling back to a default
// for missing or malformed values.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
