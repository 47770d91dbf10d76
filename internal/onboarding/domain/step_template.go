package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	ErrInvalidStepNumber = errors.New("step number must be positive")
	ErrInvalidStepKind   = errors.New("unknown step kind")
	ErrInvalidMethod     = errors.New("unknown scheduling method")
)

// SchedulingMethod selects the anchor date a step is scheduled against.
type SchedulingMethod string

const (
	// MethodDOJ schedules relative to the candidate's joining date.
	MethodDOJ SchedulingMethod = "doj"
	// MethodOfferLetter schedules relative to the offer-sent anchor.
	MethodOfferLetter SchedulingMethod = "offerLetter"
	// MethodManual means the step only fires on explicit human action.
	MethodManual SchedulingMethod = "manual"
)

// IsValid returns true for known scheduling methods.
func (m SchedulingMethod) IsValid() bool {
	switch m {
	case MethodDOJ, MethodOfferLetter, MethodManual:
		return true
	default:
		return false
	}
}

// TimeOfDay is a local wall-clock time (HH:mm) with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:mm". Empty input returns ok=false, no error.
func ParseTimeOfDay(s string) (TimeOfDay, bool, error) {
	if s == "" {
		return TimeOfDay{}, false, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, false, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, false, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, false, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, true, nil
}

// String formats the time as HH:mm.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// OnDate combines the wall-clock time with a date in the given location.
func (t TimeOfDay) OnDate(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// StepTemplate defines one step of a department's onboarding sequence.
// Exactly one template exists per (department, stepNumber); stepNumber
// defines the sequence order.
type StepTemplate struct {
	sharedDomain.BaseEntity
	department         sharedDomain.DepartmentID
	stepNumber         int
	kind               StepKind
	method             SchedulingMethod
	dueDateOffsetDays  *int
	scheduledTimeDOJ   string
	scheduledTimeOffer string
	emailTemplateID    string
}

// NewStepTemplate creates a validated step template.
func NewStepTemplate(
	department sharedDomain.DepartmentID,
	stepNumber int,
	kind StepKind,
	method SchedulingMethod,
	dueDateOffsetDays *int,
	scheduledTimeDOJ, scheduledTimeOffer string,
	emailTemplateID string,
) (*StepTemplate, error) {
	if department.IsEmpty() {
		return nil, ErrDepartmentRequired
	}
	if stepNumber < 1 {
		return nil, ErrInvalidStepNumber
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStepKind, kind)
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}
	if _, _, err := ParseTimeOfDay(scheduledTimeDOJ); err != nil {
		return nil, err
	}
	if _, _, err := ParseTimeOfDay(scheduledTimeOffer); err != nil {
		return nil, err
	}

	return &StepTemplate{
		BaseEntity:         sharedDomain.NewBaseEntity(),
		department:         department,
		stepNumber:         stepNumber,
		kind:               kind,
		method:             method,
		dueDateOffsetDays:  dueDateOffsetDays,
		scheduledTimeDOJ:   scheduledTimeDOJ,
		scheduledTimeOffer: scheduledTimeOffer,
		emailTemplateID:    emailTemplateID,
	}, nil
}

func (t *StepTemplate) Department() sharedDomain.DepartmentID { return t.department }
func (t *StepTemplate) StepNumber() int                       { return t.stepNumber }
func (t *StepTemplate) Kind() StepKind                        { return t.kind }
func (t *StepTemplate) Method() SchedulingMethod              { return t.method }
func (t *StepTemplate) DueDateOffsetDays() *int               { return t.dueDateOffsetDays }
func (t *StepTemplate) ScheduledTimeDOJ() string              { return t.scheduledTimeDOJ }
func (t *StepTemplate) ScheduledTimeOffer() string            { return t.scheduledTimeOffer }
func (t *StepTemplate) EmailTemplateID() string               { return t.emailTemplateID }

// ActiveTime returns the configured HH:mm for the template's method.
// Manual templates have no active time.
func (t *StepTemplate) ActiveTime() string {
	switch t.method {
	case MethodDOJ:
		return t.scheduledTimeDOJ
	case MethodOfferLetter:
		return t.scheduledTimeOffer
	default:
		return ""
	}
}

// IsAuto reports whether the template is fully configured for automatic
// scheduling: a non-manual method, an offset, and a time of day for the
// active method.
func (t *StepTemplate) IsAuto() bool {
	return t.method != MethodManual &&
		t.dueDateOffsetDays != nil &&
		t.ActiveTime() != ""
}

// SetEmailTemplateID assigns the outbound message template.
func (t *StepTemplate) SetEmailTemplateID(id string) {
	t.emailTemplateID = id
	t.Touch()
}

// RehydrateStepTemplate recreates a step template from persisted state.
func RehydrateStepTemplate(
	id uuid.UUID,
	department sharedDomain.DepartmentID,
	stepNumber int,
	kind StepKind,
	method SchedulingMethod,
	dueDateOffsetDays *int,
	scheduledTimeDOJ, scheduledTimeOffer string,
	emailTemplateID string,
	createdAt, updatedAt time.Time,
) *StepTemplate {
	return &StepTemplate{
		BaseEntity:         sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		department:         department,
		stepNumber:         stepNumber,
		kind:               kind,
		method:             method,
		dueDateOffsetDays:  dueDateOffsetDays,
		scheduledTimeDOJ:   scheduledTimeDOJ,
		scheduledTimeOffer: scheduledTimeOffer,
		emailTemplateID:    emailTemplateID,
	}
}
