package domain_test

import (
	"testing"
	"time"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCandidate(t *testing.T) *domain.Candidate {
	t.Helper()
	doj := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	c, err := domain.NewCandidate("Priya Nair", "priya@example.com", sharedDomain.NewDepartmentID("engineering"), &doj)
	require.NoError(t, err)
	return c
}

func TestNewCandidate_Validation(t *testing.T) {
	dept := sharedDomain.NewDepartmentID("sales")

	_, err := domain.NewCandidate("", "a@b.c", dept, nil)
	assert.ErrorIs(t, err, domain.ErrCandidateNameRequired)

	_, err = domain.NewCandidate("A", "", dept, nil)
	assert.ErrorIs(t, err, domain.ErrCandidateEmailRequired)

	_, err = domain.NewCandidate("A", "a@b.c", sharedDomain.NewDepartmentID(""), nil)
	assert.ErrorIs(t, err, domain.ErrDepartmentRequired)
}

func TestCandidate_JoiningDatePrefersActual(t *testing.T) {
	c := newTestCandidate(t)

	require.NotNil(t, c.JoiningDate())
	assert.Equal(t, c.ExpectedJoiningDate(), c.JoiningDate())

	actual := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	c.SetActualJoiningDate(actual)
	assert.Equal(t, actual, *c.JoiningDate())
}

func TestCandidate_ApplyMarker(t *testing.T) {
	c := newTestCandidate(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("first application sets marker", func(t *testing.T) {
		newlySet := c.ApplyMarker(domain.MarkerHRInduction, now)
		assert.True(t, newlySet)
		require.NotNil(t, c.MarkerSetAt(domain.MarkerHRInduction))
		assert.Equal(t, now, *c.MarkerSetAt(domain.MarkerHRInduction))
	})

	t.Run("second application is a no-op", func(t *testing.T) {
		newlySet := c.ApplyMarker(domain.MarkerHRInduction, now.Add(time.Hour))
		assert.False(t, newlySet)
		assert.Equal(t, now, *c.MarkerSetAt(domain.MarkerHRInduction))
	})

	t.Run("offer-sent marker also sets anchor", func(t *testing.T) {
		require.Nil(t, c.OfferSentAt())
		newlySet := c.ApplyMarker(domain.MarkerOfferSent, now)
		assert.True(t, newlySet)
		require.NotNil(t, c.OfferSentAt())
		assert.Equal(t, now, *c.OfferSentAt())
	})

	t.Run("none marker does nothing", func(t *testing.T) {
		assert.False(t, c.ApplyMarker(domain.MarkerNone, now))
	})
}

func TestCandidate_RevertMarker(t *testing.T) {
	c := newTestCandidate(t)
	now := time.Now().UTC()

	c.ApplyMarker(domain.MarkerOfferSent, now)
	require.NotNil(t, c.OfferSentAt())

	c.RevertMarker(domain.MarkerOfferSent)
	assert.Nil(t, c.OfferSentAt())
	assert.Nil(t, c.MarkerSetAt(domain.MarkerOfferSent))
}

func TestCandidate_OfferSigned(t *testing.T) {
	c := newTestCandidate(t)
	assert.False(t, c.OfferSigned())

	c.MarkOfferSigned(time.Now().UTC())
	assert.True(t, c.OfferSigned())
}
