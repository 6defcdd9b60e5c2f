package notify

import (
	"fmt"
	"strings"

	"github.com/healthshield-server/internal/domain"
)

// maxDiseasesInAlert caps how many matched diseases are named in the
// alert text; SMS payloads are length-limited.
const maxDiseasesInAlert = 3

// BuildAlertMessage composes the alert text sent to the health
// authorities for a high-risk submission.
func BuildAlertMessage(sub *domain.Submission, matches []domain.MatchResult, tier domain.RiskTier) string {
	var b strings.Builder

	fmt.Fprintf(&b, "HealthShield ALERT (%s risk): possible water-borne disease outbreak.\n", strings.ToUpper(string(tier)))
	fmt.Fprintf(&b, "Patient: %s, age %d, %s, village %s. Contact: %s.\n", sub.Name, sub.Age, sub.Gender, sub.Village, sub.Mobile)

	if len(matches) > 0 {
		names := make([]string, 0, maxDiseasesInAlert)
		for i, m := range matches {
			if i >= maxDiseasesInAlert {
				break
			}
			names = append(names, fmt.Sprintf("%s (%.0f%% match)", m.Name, m.MatchPercentage))
		}
		fmt.Fprintf(&b, "Suspected: %s.", strings.Join(names, ", "))
	}

	return b.String()
}
