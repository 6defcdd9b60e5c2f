package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/healthshield-server/internal/cache"
	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/notify"
	"github.com/healthshield-server/internal/store"
)

// Pagination defaults for report listing.
const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

// Result message strings, selected by computed tier.
const (
	msgHighAlertSent = "High risk detected! SMS alert sent to health authorities."
	msgHighNoAlert   = "High risk detected! Alert system activated."
	msgMedium        = "Medium risk detected. Please consult a healthcare professional."
	msgLow           = "No serious water-borne disease detected. Your health appears good."
)

// ReportService orchestrates the report lifecycle: validate, score,
// notify on high risk, persist, and return a summary.
type ReportService struct {
	logger    *logrus.Logger
	scorer    *RiskScorer
	store     store.Store
	notifier  notify.AlertSender
	cache     cache.PageCache
	recipient string
}

// NewReportService creates a new report service. The cache is optional;
// pass nil to disable list caching.
func NewReportService(
	logger *logrus.Logger,
	scorer *RiskScorer,
	reportStore store.Store,
	notifier notify.AlertSender,
	pageCache cache.PageCache,
	recipient string,
) *ReportService {
	return &ReportService{
		logger:    logger,
		scorer:    scorer,
		store:     reportStore,
		notifier:  notifier,
		cache:     pageCache,
		recipient: recipient,
	}
}

// SubmitResult is the summary returned for one processed submission.
type SubmitResult struct {
	ReportID         int64                `json:"report_id"`
	RiskTier         domain.RiskTier      `json:"risk_level"`
	RiskScore        float64              `json:"risk_score"`
	MatchingDiseases []domain.MatchResult `json:"matching_diseases"`
	NotificationSent bool                 `json:"sms_alert_sent"`
	Message          string               `json:"message"`
}

// Submit processes one symptom submission end to end. Validation faults
// are returned as *domain.ValidationError before any scoring, persistence
// or notification occurs; any other error is an internal fault. The
// notification outcome is decided before the report write, so a persisted
// report is always consistent with its own notification record.
func (s *ReportService) Submit(ctx context.Context, sub *domain.Submission) (*SubmitResult, error) {
	if ve := sub.Validate(); ve != nil {
		return nil, ve
	}

	analysis := s.scorer.Score(sub.Symptoms)

	s.logger.WithFields(logrus.Fields{
		"name":       sub.Name,
		"village":    sub.Village,
		"risk_level": analysis.RiskTier,
		"risk_score": analysis.RiskScore,
		"matches":    len(analysis.MatchingDiseases),
	}).Info("Symptom analysis completed")

	// Notify before persisting so the stored report reflects the final
	// notification outcome.
	smsSent := false
	var smsTimestamp *time.Time
	smsRecipient := ""
	if analysis.RiskTier == domain.RiskHigh && len(analysis.MatchingDiseases) > 0 {
		if err := s.notifier.SendAlert(ctx, sub, analysis.MatchingDiseases, analysis.RiskTier); err == nil {
			now := time.Now().UTC()
			smsSent = true
			smsTimestamp = &now
			smsRecipient = s.recipient
		}
	}

	report, err := s.buildReport(sub, analysis, smsSent, smsTimestamp, smsRecipient)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, report); err != nil {
		// A notification may already have gone out; log the divergence
		// rather than attempting a rollback.
		s.logger.WithFields(logrus.Fields{
			"village":  sub.Village,
			"sms_sent": smsSent,
			"error":    err,
		}).Error("Failed to persist report")
		return nil, domain.NewAppError(domain.ErrDatabaseError, "failed to persist report", err.Error())
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return &SubmitResult{
		ReportID:         report.ID,
		RiskTier:         analysis.RiskTier,
		RiskScore:        analysis.RiskScore,
		MatchingDiseases: analysis.MatchingDiseases,
		NotificationSent: smsSent,
		Message:          resultMessage(analysis.RiskTier, smsSent),
	}, nil
}

// ListReports returns one page of stored reports, newest first, serving
// from the page cache when possible.
func (s *ReportService) ListReports(ctx context.Context, page, perPage int) (*store.ReportPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetPage(ctx, page, perPage); ok {
			return cached, nil
		}
	}

	result, err := s.store.List(ctx, page, perPage)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list reports")
		return nil, domain.NewAppError(domain.ErrDatabaseError, "failed to list reports", err.Error())
	}

	if s.cache != nil {
		s.cache.SetPage(ctx, page, perPage, result)
	}
	return result, nil
}

// buildReport translates a validated submission and its analysis into the
// persistent report record.
func (s *ReportService) buildReport(
	sub *domain.Submission,
	analysis domain.AnalysisResult,
	smsSent bool,
	smsTimestamp *time.Time,
	smsRecipient string,
) (*domain.Report, error) {
	symptomsJSON, err := json.Marshal(sub.Symptoms)
	if err != nil {
		return nil, fmt.Errorf("encoding symptoms: %w", err)
	}
	diseasesJSON, err := json.Marshal(analysis.MatchingDiseases)
	if err != nil {
		return nil, fmt.Errorf("encoding matching diseases: %w", err)
	}

	return &domain.Report{
		Name:             sub.Name,
		Age:              sub.Age,
		Gender:           sub.Gender,
		Village:          sub.Village,
		Mobile:           sub.Mobile,
		Email:            sub.Email,
		Symptoms:         string(symptomsJSON),
		RiskLevel:        analysis.RiskTier,
		DetectedDiseases: string(diseasesJSON),
		RiskScore:        analysis.RiskScore,
		SMSSent:          smsSent,
		SMSTimestamp:     smsTimestamp,
		SMSRecipient:     smsRecipient,
	}, nil
}

// resultMessage selects the human-readable summary for a tier.
func resultMessage(tier domain.RiskTier, smsSent bool) string {
	switch tier {
	case domain.RiskHigh:
		if smsSent {
			return msgHighAlertSent
		}
		return msgHighNoAlert
	case domain.RiskMedium:
		return msgMedium
	default:
		return msgLow
	}
}
