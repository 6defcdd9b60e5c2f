// Package domain holds the core data model for the HealthShield backend:
// the water-borne disease catalog, symptom submissions, computed analyses
// and persisted reports.
package domain

// Disease is a single entry in the disease catalog. RiskLabel is display
// metadata shared with the submission form; the scorer reads only Symptoms
// and Severity.
type Disease struct {
	Name        string  `json:"name"`
	Symptoms    []int   `json:"symptoms"`
	Description string  `json:"description"`
	RiskLabel   string  `json:"riskLevel"`
	Severity    float64 `json:"severity"`
}

// Catalog is an ordered set of disease definitions. It is loaded once at
// process start and never mutated; iteration order is the order diseases
// appear in the slice.
type Catalog []Disease

// DefaultCatalog returns the built-in water-borne disease catalog. Symptom
// ids reference the fixed enumeration shared with the submission form.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:        "Cholera",
			Symptoms:    []int{2, 3, 5, 8, 9, 11},
			Description: "Acute diarrheal illness caused by infection of the intestine",
			RiskLabel:   "high",
			Severity:    9,
		},
		{
			Name:        "Typhoid",
			Symptoms:    []int{1, 2, 4, 8, 9},
			Description: "Bacterial infection that can spread throughout the body",
			RiskLabel:   "high",
			Severity:    8,
		},
		{
			Name:        "Hepatitis A",
			Symptoms:    []int{1, 4, 6, 8, 9},
			Description: "Highly contagious liver infection",
			RiskLabel:   "medium",
			Severity:    6,
		},
		{
			Name:        "Dysentery",
			Symptoms:    []int{2, 4, 5, 9, 11},
			Description: "Intestinal inflammation causing severe diarrhea",
			RiskLabel:   "medium",
			Severity:    7,
		},
	}
}
