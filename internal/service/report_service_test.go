package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/store"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	reports   []*domain.Report
	createErr error
	listErr   error
}

func (m *memStore) Create(_ context.Context, report *domain.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	report.ID = int64(len(m.reports) + 1)
	m.reports = append(m.reports, report)
	return nil
}

func (m *memStore) List(_ context.Context, page, perPage int) (*store.ReportPage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	total := int64(len(m.reports))
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	start := (page - 1) * perPage
	items := make([]*domain.Report, 0)
	for i := len(m.reports) - 1 - start; i >= 0 && len(items) < perPage; i-- {
		items = append(items, m.reports[i])
	}
	return &store.ReportPage{Items: items, Total: total, Pages: pages, Page: page}, nil
}

func (m *memStore) Count(_ context.Context) (int64, error) { return int64(len(m.reports)), nil }
func (m *memStore) Ping(_ context.Context) error           { return nil }
func (m *memStore) Close() error                           { return nil }

// fakeNotifier records alert calls.
type fakeNotifier struct {
	sendErr error
	calls   int
	tier    domain.RiskTier
	matches []domain.MatchResult
}

func (f *fakeNotifier) SendAlert(_ context.Context, _ *domain.Submission, matches []domain.MatchResult, tier domain.RiskTier) error {
	f.calls++
	f.tier = tier
	f.matches = matches
	return f.sendErr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(st store.Store, n *fakeNotifier) *ReportService {
	return NewReportService(
		testLogger(),
		NewRiskScorer(domain.DefaultCatalog()),
		st,
		n,
		nil,
		"18605001066",
	)
}

func validSubmission(symptoms []int) *domain.Submission {
	return &domain.Submission{
		Name:     "Asha Kumari",
		Age:      34,
		Gender:   "female",
		Village:  "Majuli",
		Mobile:   "9797001122",
		Symptoms: symptoms,
	}
}

func TestSubmit_ValidationFaults(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*domain.Submission)
	}{
		{"name", func(s *domain.Submission) { s.Name = "" }},
		{"age", func(s *domain.Submission) { s.Age = 0 }},
		{"gender", func(s *domain.Submission) { s.Gender = "" }},
		{"village", func(s *domain.Submission) { s.Village = "" }},
		{"mobile", func(s *domain.Submission) { s.Mobile = "" }},
		{"symptoms", func(s *domain.Submission) { s.Symptoms = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			st := &memStore{}
			n := &fakeNotifier{}
			svc := newTestService(st, n)

			sub := validSubmission([]int{2, 3, 5})
			tt.mutate(sub)

			result, err := svc.Submit(context.Background(), sub)

			require.Error(t, err)
			assert.Nil(t, result)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, "Missing required field: "+tt.field, ve.Message)

			// Validation short-circuits before scoring, persistence or
			// notification.
			assert.Empty(t, st.reports)
			assert.Zero(t, n.calls)
		})
	}
}

func TestSubmit_EmailOptional(t *testing.T) {
	svc := newTestService(&memStore{}, &fakeNotifier{})

	sub := validSubmission([]int{2, 3, 5})
	sub.Email = ""

	result, err := svc.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.NotZero(t, result.ReportID)
}

func TestSubmit_MediumRiskDoesNotNotify(t *testing.T) {
	st := &memStore{}
	n := &fakeNotifier{}
	// Single-disease catalog so only Cholera contributes: score 9.
	svc := NewReportService(
		testLogger(),
		NewRiskScorer(domain.Catalog{
			{Name: "Cholera", Symptoms: []int{2, 3, 5, 8, 9, 11}, Severity: 9},
		}),
		st, n, nil, "18605001066",
	)

	result, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5, 8, 9, 11}))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, result.RiskTier)
	assert.Equal(t, 9.0, result.RiskScore)
	assert.False(t, result.NotificationSent)
	assert.Equal(t, "Medium risk detected. Please consult a healthcare professional.", result.Message)
	assert.Zero(t, n.calls, "medium tier must not trigger an alert")

	require.Len(t, st.reports, 1)
	assert.False(t, st.reports[0].SMSSent)
	assert.Nil(t, st.reports[0].SMSTimestamp)
}

func TestSubmit_HighRiskNotifies(t *testing.T) {
	st := &memStore{}
	n := &fakeNotifier{}
	svc := newTestService(st, n)

	// Full Cholera + Hepatitis A symptom sets push the score to high.
	result, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5, 8, 9, 11, 1, 4, 6}))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, result.RiskTier)
	assert.True(t, result.NotificationSent)
	assert.Equal(t, "High risk detected! SMS alert sent to health authorities.", result.Message)
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, domain.RiskHigh, n.tier)
	assert.NotEmpty(t, n.matches)

	require.Len(t, st.reports, 1)
	report := st.reports[0]
	assert.True(t, report.SMSSent)
	assert.NotNil(t, report.SMSTimestamp)
	assert.Equal(t, "18605001066", report.SMSRecipient)
}

func TestSubmit_HighRiskNotifierFailure(t *testing.T) {
	st := &memStore{}
	n := &fakeNotifier{sendErr: errors.New("gateway unavailable")}
	svc := newTestService(st, n)

	result, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5, 8, 9, 11, 1, 4, 6}))

	// A failed alert is recorded, not escalated.
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, result.RiskTier)
	assert.False(t, result.NotificationSent)
	assert.Equal(t, "High risk detected! Alert system activated.", result.Message)

	require.Len(t, st.reports, 1)
	report := st.reports[0]
	assert.False(t, report.SMSSent)
	assert.Nil(t, report.SMSTimestamp)
	assert.Empty(t, report.SMSRecipient)
}

func TestSubmit_EmptySymptomsPersistsLowReport(t *testing.T) {
	st := &memStore{}
	n := &fakeNotifier{}
	svc := newTestService(st, n)

	result, err := svc.Submit(context.Background(), validSubmission([]int{}))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, result.RiskTier)
	assert.Equal(t, 0.0, result.RiskScore)
	assert.Empty(t, result.MatchingDiseases)
	assert.False(t, result.NotificationSent)
	assert.Equal(t, "No serious water-borne disease detected. Your health appears good.", result.Message)
	assert.Zero(t, n.calls)

	require.Len(t, st.reports, 1)
	assert.Equal(t, "[]", st.reports[0].Symptoms)
	assert.Equal(t, domain.RiskLow, st.reports[0].RiskLevel)
}

func TestSubmit_StoreFailureIsInternalFault(t *testing.T) {
	st := &memStore{createErr: errors.New("disk full")}
	svc := newTestService(st, &fakeNotifier{})

	result, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5}))

	require.Error(t, err)
	assert.Nil(t, result)

	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve), "storage failure must not surface as a validation fault")

	var ae *domain.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, domain.ErrDatabaseError, ae.Code)
}

func TestSubmit_ReportSerializesAnalysis(t *testing.T) {
	st := &memStore{}
	svc := newTestService(st, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5}))
	require.NoError(t, err)

	require.Len(t, st.reports, 1)
	report := st.reports[0]
	assert.Equal(t, "[2,3,5]", report.Symptoms)
	assert.Contains(t, report.DetectedDiseases, `"name":"Cholera"`)
	assert.Contains(t, report.DetectedDiseases, `"match_percentage":50`)
}

func TestListReports_Defaults(t *testing.T) {
	st := &memStore{}
	svc := newTestService(st, &fakeNotifier{})

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), validSubmission([]int{2, 3, 5}))
		require.NoError(t, err)
	}

	page, err := svc.ListReports(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Pages)
	assert.Len(t, page.Items, 3)
}
