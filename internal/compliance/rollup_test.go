package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halcyonlabs/argus/internal/models"
)

func TestSummarize(t *testing.T) {
	assessments := []models.ComplianceAssessment{
		{Status: models.AssessmentCompliant},
		{Status: models.AssessmentCompliant},
		{Status: models.AssessmentNonCompliant},
		{Status: models.AssessmentPartiallyCompliant},
		{Status: models.AssessmentNotApplicable},
	}

	r := Summarize(assessments)
	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 2, r.Compliant)
	assert.Equal(t, 1, r.NonCompliant)
	assert.Equal(t, 1, r.PartiallyCompliant)
	assert.Equal(t, 1, r.NotApplicable)
	// 2 compliant of 4 applicable
	assert.InDelta(t, 50.0, r.Percentage, 0.0001)
}

func TestSummarizeEmpty(t *testing.T) {
	r := Summarize(nil)
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0.0, r.Percentage)
}

func TestSummarizeAllNotApplicable(t *testing.T) {
	assessments := []models.ComplianceAssessment{
		{Status: models.AssessmentNotApplicable},
		{Status: models.AssessmentNotApplicable},
	}
	r := Summarize(assessments)
	// Nothing applicable: percentage stays 0 rather than dividing by zero
	assert.Equal(t, 0.0, r.Percentage)
}

func TestSummarizeControlsMissingCountsAsNonCompliant(t *testing.T) {
	controls := []models.ComplianceControl{
		{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4},
	}
	byStatus := map[uint]string{
		1: models.AssessmentCompliant,
		2: models.AssessmentCompliant,
	}

	r := SummarizeControls(controls, byStatus)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 2, r.Compliant)
	assert.Equal(t, 2, r.NonCompliant)
	assert.InDelta(t, 50.0, r.Percentage, 0.0001)
}

func TestSummarizeControlsPureNoMapMutation(t *testing.T) {
	controls := []models.ComplianceControl{{ID: 1}, {ID: 2}}
	byStatus := map[uint]string{1: models.AssessmentCompliant}

	SummarizeControls(controls, byStatus)
	// The unassessed control must not have been written back
	_, ok := byStatus[2]
	assert.False(t, ok)
	assert.Len(t, byStatus, 1)
}

func TestByCategory(t *testing.T) {
	controls := []models.ComplianceControl{
		{ID: 1, Category: "network"},
		{ID: 2, Category: "network"},
		{ID: 3, Category: "data"},
	}
	byStatus := map[uint]string{
		1: models.AssessmentCompliant,
		3: models.AssessmentNotApplicable,
	}

	grouped := ByCategory(controls, byStatus)
	assert.Len(t, grouped, 2)

	network := grouped["network"]
	assert.Equal(t, 2, network.Total)
	assert.Equal(t, 1, network.Compliant)
	assert.Equal(t, 1, network.NonCompliant)
	assert.InDelta(t, 50.0, network.Percentage, 0.0001)

	data := grouped["data"]
	assert.Equal(t, 1, data.NotApplicable)
	assert.Equal(t, 0.0, data.Percentage)
}
