package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	ErrCandidateNameRequired  = errors.New("candidate name is required")
	ErrCandidateEmailRequired = errors.New("candidate email is required")
	ErrDepartmentRequired     = errors.New("candidate department is required")
)

// Candidate is a person moving through the onboarding workflow. It owns
// the two anchor dates step offsets are measured from (date of joining
// and offer-sent) plus the per-kind step markers the engine sets as
// steps complete.
type Candidate struct {
	sharedDomain.BaseAggregateRoot
	fullName   string
	email      string
	department sharedDomain.DepartmentID

	// Anchor dates. JoiningDate() prefers actual over expected.
	expectedJoiningDate *time.Time
	actualJoiningDate   *time.Time
	offerSentAt         *time.Time

	// Offer paperwork state; gates reminder steps.
	offerSignedAt *time.Time

	// Persisted offer-letter document reference (storage key).
	offerLetterFile string

	// Step markers, keyed by Marker. Each records when the owning step
	// kind last completed; nil means never.
	markers map[Marker]*time.Time
}

// NewCandidate creates a candidate at intake.
func NewCandidate(fullName, email string, department sharedDomain.DepartmentID, expectedJoiningDate *time.Time) (*Candidate, error) {
	if fullName == "" {
		return nil, ErrCandidateNameRequired
	}
	if email == "" {
		return nil, ErrCandidateEmailRequired
	}
	if department.IsEmpty() {
		return nil, ErrDepartmentRequired
	}

	return &Candidate{
		BaseAggregateRoot:   sharedDomain.NewBaseAggregateRoot(),
		fullName:            fullName,
		email:               email,
		department:          department,
		expectedJoiningDate: expectedJoiningDate,
		markers:             make(map[Marker]*time.Time),
	}, nil
}

func (c *Candidate) FullName() string                      { return c.fullName }
func (c *Candidate) Email() string                         { return c.email }
func (c *Candidate) Department() sharedDomain.DepartmentID { return c.department }
func (c *Candidate) ExpectedJoiningDate() *time.Time       { return c.expectedJoiningDate }
func (c *Candidate) ActualJoiningDate() *time.Time         { return c.actualJoiningDate }
func (c *Candidate) OfferSentAt() *time.Time               { return c.offerSentAt }
func (c *Candidate) OfferSignedAt() *time.Time             { return c.offerSignedAt }
func (c *Candidate) OfferLetterFile() string               { return c.offerLetterFile }

// JoiningDate returns the date-of-joining anchor: the actual joining
// date once known, otherwise the expected one. Nil when neither is set.
func (c *Candidate) JoiningDate() *time.Time {
	if c.actualJoiningDate != nil {
		return c.actualJoiningDate
	}
	return c.expectedJoiningDate
}

// SetExpectedJoiningDate updates the expected joining date.
func (c *Candidate) SetExpectedJoiningDate(d time.Time) {
	c.expectedJoiningDate = &d
	c.Touch()
}

// SetActualJoiningDate records the day the candidate actually joined.
func (c *Candidate) SetActualJoiningDate(d time.Time) {
	c.actualJoiningDate = &d
	c.Touch()
}

// SetOfferLetterFile stores the persisted offer-letter document reference.
func (c *Candidate) SetOfferLetterFile(ref string) {
	c.offerLetterFile = ref
	c.Touch()
}

// MarkOfferSigned records that the candidate returned the signed offer.
func (c *Candidate) MarkOfferSigned(at time.Time) {
	c.offerSignedAt = &at
	c.Touch()
}

// OfferSigned reports whether the signed offer is on file.
func (c *Candidate) OfferSigned() bool {
	return c.offerSignedAt != nil
}

// ApplyMarker sets the marker for a completed step kind. MarkerOfferSent
// also sets the offer-sent anchor. Returns true when the marker (or
// anchor) was newly set rather than already present.
func (c *Candidate) ApplyMarker(marker Marker, at time.Time) bool {
	if marker == MarkerNone {
		return false
	}

	newlySet := false
	if marker == MarkerOfferSent && c.offerSentAt == nil {
		c.offerSentAt = &at
		newlySet = true
	}
	if c.markers[marker] == nil {
		c.markers[marker] = &at
		newlySet = true
	}
	if newlySet {
		c.Touch()
	}
	return newlySet
}

// RevertMarker clears a marker during an explicit undo. Reverting
// MarkerOfferSent also clears the offer-sent anchor.
func (c *Candidate) RevertMarker(marker Marker) {
	if marker == MarkerNone {
		return
	}
	if marker == MarkerOfferSent {
		c.offerSentAt = nil
	}
	delete(c.markers, marker)
	c.Touch()
}

// MarkerSetAt returns when the marker was set, or nil.
func (c *Candidate) MarkerSetAt(marker Marker) *time.Time {
	return c.markers[marker]
}

// Markers returns a copy of all set markers.
func (c *Candidate) Markers() map[Marker]time.Time {
	out := make(map[Marker]time.Time, len(c.markers))
	for m, t := range c.markers {
		if t != nil {
			out[m] = *t
		}
	}
	return out
}

// RehydrateCandidate recreates a candidate from persisted state.
func RehydrateCandidate(
	id uuid.UUID,
	fullName, email string,
	department sharedDomain.DepartmentID,
	expectedJoiningDate, actualJoiningDate, offerSentAt, offerSignedAt *time.Time,
	offerLetterFile string,
	markers map[Marker]*time.Time,
	createdAt, updatedAt time.Time,
	version int,
) *Candidate {
	if markers == nil {
		markers = make(map[Marker]*time.Time)
	}
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Candidate{
		BaseAggregateRoot:   sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version),
		fullName:            fullName,
		email:               email,
		department:          department,
		expectedJoiningDate: expectedJoiningDate,
		actualJoiningDate:   actualJoiningDate,
		offerSentAt:         offerSentAt,
		offerSignedAt:       offerSignedAt,
		offerLetterFile:     offerLetterFile,
		markers:             markers,
	}
}
