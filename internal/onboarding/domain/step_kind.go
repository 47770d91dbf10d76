package domain

import "time"

// StepKind enumerates the kinds of onboarding steps. The set is closed:
// every kind carries its full behavior in Spec(), so adding a kind means
// extending the switch below rather than configuring field maps at runtime.
type StepKind string

const (
	StepKindOfferLetter     StepKind = "OFFER_LETTER"
	StepKindOfferReminder   StepKind = "OFFER_REMINDER"
	StepKindDocumentRequest StepKind = "DOCUMENT_REQUEST"
	StepKindHRInduction     StepKind = "HR_INDUCTION"
	StepKindTeamInduction   StepKind = "TEAM_INDUCTION"
	StepKindTraining        StepKind = "TRAINING"
	StepKindCheckIn         StepKind = "CHECK_IN"
)

// AllStepKinds lists every known step kind.
var AllStepKinds = []StepKind{
	StepKindOfferLetter,
	StepKindOfferReminder,
	StepKindDocumentRequest,
	StepKindHRInduction,
	StepKindTeamInduction,
	StepKindTraining,
	StepKindCheckIn,
}

// Marker names a candidate step-marker field set when a step of the
// owning kind completes.
type Marker string

const (
	MarkerNone               Marker = ""
	MarkerOfferSent          Marker = "offer_sent"
	MarkerOfferReminded      Marker = "offer_reminded"
	MarkerDocumentsRequested Marker = "documents_requested"
	MarkerHRInduction        Marker = "hr_induction_scheduled"
	MarkerTeamInduction      Marker = "team_induction_scheduled"
	MarkerTrainingAssigned   Marker = "training_assigned"
	MarkerCheckInDone        Marker = "check_in_done"
)

// KindSpec describes the static behavior of a step kind: the message
// type it dispatches, the candidate marker it sets, whether a document
// must accompany the message, whether it is suppressed once the offer
// is signed, and how long its calendar slot lasts.
type KindSpec struct {
	MessageType        MessageType
	Marker             Marker
	RequiresAttachment bool
	SkipWhenSigned     bool
	Duration           time.Duration
}

// Spec returns the behavior for the kind. The switch is exhaustive over
// AllStepKinds; unknown kinds fall back to a generic 30-minute step
// with no marker.
func (k StepKind) Spec() KindSpec {
	switch k {
	case StepKindOfferLetter:
		return KindSpec{
			MessageType:        MessageTypeOfferLetter,
			Marker:             MarkerOfferSent,
			RequiresAttachment: true,
			Duration:           30 * time.Minute,
		}
	case StepKindOfferReminder:
		return KindSpec{
			MessageType:    MessageTypeOfferReminder,
			Marker:         MarkerOfferReminded,
			SkipWhenSigned: true,
			Duration:       15 * time.Minute,
		}
	case StepKindDocumentRequest:
		return KindSpec{
			MessageType: MessageTypeDocumentRequest,
			Marker:      MarkerDocumentsRequested,
			Duration:    30 * time.Minute,
		}
	case StepKindHRInduction:
		return KindSpec{
			MessageType: MessageTypeHRInduction,
			Marker:      MarkerHRInduction,
			Duration:    60 * time.Minute,
		}
	case StepKindTeamInduction:
		return KindSpec{
			MessageType: MessageTypeTeamInduction,
			Marker:      MarkerTeamInduction,
			Duration:    90 * time.Minute,
		}
	case StepKindTraining:
		return KindSpec{
			MessageType: MessageTypeTraining,
			Marker:      MarkerTrainingAssigned,
			Duration:    30 * time.Minute,
		}
	case StepKindCheckIn:
		return KindSpec{
			MessageType: MessageTypeCheckIn,
			Marker:      MarkerCheckInDone,
			Duration:    30 * time.Minute,
		}
	default:
		return KindSpec{
			MessageType: MessageType(k),
			Marker:      MarkerNone,
			Duration:    30 * time.Minute,
		}
	}
}

// IsValid returns true for known step kinds.
func (k StepKind) IsValid() bool {
	switch k {
	case StepKindOfferLetter, StepKindOfferReminder, StepKindDocumentRequest,
		StepKindHRInduction, StepKindTeamInduction, StepKindTraining, StepKindCheckIn:
		return true
	default:
		return false
	}
}

// String returns the string form of the kind.
func (k StepKind) String() string {
	return string(k)
}
