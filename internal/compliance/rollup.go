// Package compliance computes rollup percentages from control assessments.
// The functions here are pure; persistence of default assessments is an
// explicit, separate operation owned by the compliance service.
package compliance

import (
	"github.com/halcyonlabs/argus/internal/models"
)

// Rollup summarizes assessment standing for one framework or category.
// Percentage is compliant over applicable controls (total minus
// not-applicable) and is 0 when nothing is applicable.
type Rollup struct {
	Total              int     `json:"total"`
	Compliant          int     `json:"compliant"`
	NonCompliant       int     `json:"non_compliant"`
	PartiallyCompliant int     `json:"partially_compliant"`
	NotApplicable      int     `json:"not_applicable"`
	Percentage         float64 `json:"percentage"`
}

func (r *Rollup) add(status string) {
	r.Total++
	switch status {
	case models.AssessmentCompliant:
		r.Compliant++
	case models.AssessmentNonCompliant:
		r.NonCompliant++
	case models.AssessmentPartiallyCompliant:
		r.PartiallyCompliant++
	case models.AssessmentNotApplicable:
		r.NotApplicable++
	}
}

func (r *Rollup) finish() {
	applicable := r.Total - r.NotApplicable
	if applicable > 0 {
		r.Percentage = float64(r.Compliant) / float64(applicable) * 100
	}
}

// Summarize rolls up a set of assessments. Controls without an assessment
// must be represented by the caller (see SummarizeControls for the read-only
// missing-as-non-compliant treatment).
func Summarize(assessments []models.ComplianceAssessment) Rollup {
	var r Rollup
	for _, a := range assessments {
		r.add(a.Status)
	}
	r.finish()
	return r
}

// SummarizeControls rolls up a framework's controls against the assessments
// an organization has on file. Controls lacking an assessment count as
// non_compliant without any write side effect, which keeps report paths
// pure. byStatus maps control id to assessment status.
func SummarizeControls(controls []models.ComplianceControl, byStatus map[uint]string) Rollup {
	var r Rollup
	for _, c := range controls {
		status, ok := byStatus[c.ID]
		if !ok {
			status = models.AssessmentNonCompliant
		}
		r.add(status)
	}
	r.finish()
	return r
}

// ByCategory computes one rollup per control category. Missing assessments
// count as non_compliant, matching SummarizeControls.
func ByCategory(controls []models.ComplianceControl, byStatus map[uint]string) map[string]Rollup {
	grouped := make(map[string]*Rollup)
	for _, c := range controls {
		status, ok := byStatus[c.ID]
		if !ok {
			status = models.AssessmentNonCompliant
		}
		r, ok := grouped[c.Category]
		if !ok {
			r = &Rollup{}
			grouped[c.Category] = r
		}
		r.add(status)
	}

	out := make(map[string]Rollup, len(grouped))
	for category, r := range grouped {
		r.finish()
		out[category] = *r
	}
	return out
}
