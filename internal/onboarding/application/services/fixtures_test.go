package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

func testCandidate(t *testing.T) *domain.Candidate {
	t.Helper()
	candidate, err := domain.NewCandidate("Priya Sharma", "priya@example.com", sharedDomain.NewDepartmentID("engineering"), nil)
	require.NoError(t, err)
	return candidate
}

func testCandidateWithDOJ(t *testing.T, doj time.Time) *domain.Candidate {
	t.Helper()
	candidate := testCandidate(t)
	candidate.SetExpectedJoiningDate(doj)
	return candidate
}

func testTemplate(t *testing.T, stepNumber int, kind domain.StepKind, method domain.SchedulingMethod, offsetDays int, timeDOJ, timeOffer string) *domain.StepTemplate {
	t.Helper()
	tmpl, err := domain.NewStepTemplate(
		sharedDomain.NewDepartmentID("engineering"),
		stepNumber, kind, method,
		&offsetDays, timeDOJ, timeOffer,
		"tmpl-"+string(kind),
	)
	require.NoError(t, err)
	return tmpl
}
