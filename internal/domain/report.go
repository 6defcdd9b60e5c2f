package domain

import (
	"time"
)

// RiskTier is the computed risk classification derived from the aggregate
// risk score.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Submission is a self-reported symptom checklist as received from the
// submission form. It is transient; persisted state lives in Report.
type Submission struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Village  string `json:"village"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email,omitempty"`
	Symptoms []int  `json:"symptoms"`
}

// Validate checks the required submission fields in a fixed order and
// returns a ValidationError naming the first missing one. Email is
// optional. Symptoms must be present but may be an empty list; an empty
// checklist is a valid submission that scores as low risk.
func (s *Submission) Validate() *ValidationError {
	if s.Name == "" {
		return NewMissingFieldError("name")
	}
	if s.Age <= 0 {
		return NewMissingFieldError("age")
	}
	if s.Gender == "" {
		return NewMissingFieldError("gender")
	}
	if s.Village == "" {
		return NewMissingFieldError("village")
	}
	if s.Mobile == "" {
		return NewMissingFieldError("mobile")
	}
	if s.Symptoms == nil {
		return NewMissingFieldError("symptoms")
	}
	return nil
}

// MatchResult is one disease matched by a submission. The embedded Disease
// keeps the catalog fields flat in the JSON payload, mirroring the shape
// the submission form consumes.
type MatchResult struct {
	Disease
	MatchPercentage float64 `json:"match_percentage"`
	MatchedSymptoms []int   `json:"matched_symptoms"`
}

// AnalysisResult is the outcome of scoring one symptom set. It is computed
// fresh for every submission and never cached.
type AnalysisResult struct {
	RiskTier         RiskTier      `json:"risk_level"`
	RiskScore        float64       `json:"risk_score"`
	MatchingDiseases []MatchResult `json:"matching_diseases"`
}

// Report is the durable record of one submission together with its
// computed analysis and notification outcome. Once created it is never
// updated; the analysis is not recomputed even if the catalog changes.
type Report struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	Village          string     `json:"village"`
	Mobile           string     `json:"mobile"`
	Email            string     `json:"email"`
	Symptoms         string     `json:"symptoms"`          // JSON-encoded symptom id list
	RiskLevel        RiskTier   `json:"risk_level"`
	DetectedDiseases string     `json:"detected_diseases"` // JSON-encoded match results
	RiskScore        float64    `json:"risk_score"`
	SMSSent          bool       `json:"sms_sent"`
	SMSTimestamp     *time.Time `json:"sms_timestamp"`
	SMSRecipient     string     `json:"sms_recipient,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"-"`
}
