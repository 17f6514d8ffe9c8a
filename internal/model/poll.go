package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// WizardStep is a state of the citizen poll wizard
type WizardStep string

const (
	StepIdentify WizardStep = "IDENTIFY"
	StepCategory WizardStep = "CATEGORY"
	StepRating   WizardStep = "RATING"
	StepSuccess  WizardStep = "SUCCESS"
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrMissingIdentity   = errors.New("citizen name, neighborhood and area type are required")
	ErrInvalidCPF        = errors.New("cpf must have 11 digits")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidRating     = errors.New("rating out of range")
	ErrEmptyComment      = errors.New("comment is required")
)

// CitizenIdentity is collected on the first wizard step
type CitizenIdentity struct {
	Name         string       `json:"name"`
	CPF          string       `json:"cpf,omitempty"`
	WhatsApp     string       `json:"whatsapp,omitempty"`
	Neighborhood string       `json:"neighborhood"`
	AreaType     AreaType     `json:"areaType"`
	Coords       *Coordinates `json:"coords,omitempty"`
}

// PollWizard is the state of one in-progress poll. Transition methods never
// mutate the receiver; they return the next state.
type PollWizard struct {
	ID             string          `json:"id"`
	MunicipalityID string          `json:"municipalityId"`
	Step           WizardStep      `json:"step"`
	Identity       CitizenIdentity `json:"identity"`
	Category       Category        `json:"category,omitempty"`
	Feedback       *Feedback       `json:"feedback,omitempty"` // composed record, set on SUCCESS
	StartedAt      time.Time       `json:"startedAt"`
}

// NewPollWizard starts a wizard on the IDENTIFY step
func NewPollWizard(id, municipalityID string, now time.Time) PollWizard {
	return PollWizard{
		ID:             id,
		MunicipalityID: municipalityID,
		Step:           StepIdentify,
		StartedAt:      now,
	}
}

// Identify records the citizen identity and advances to CATEGORY
func (w PollWizard) Identify(id CitizenIdentity) (PollWizard, error) {
	if w.Step != StepIdentify {
		return w, ErrInvalidTransition
	}
	id.Name = strings.TrimSpace(id.Name)
	id.Neighborhood = strings.TrimSpace(id.Neighborhood)
	if id.Name == "" || id.Neighborhood == "" || !id.AreaType.Valid() {
		return w, ErrMissingIdentity
	}
	if id.CPF != "" {
		digits := onlyDigits(id.CPF)
		if len(digits) != 11 {
			return w, ErrInvalidCPF
		}
		id.CPF = digits
	}
	id.WhatsApp = onlyDigits(id.WhatsApp)

	w.Identity = id
	w.Step = StepCategory
	return w, nil
}

// ChooseCategory records the category and advances to RATING
func (w PollWizard) ChooseCategory(c Category) (PollWizard, error) {
	if w.Step != StepCategory {
		return w, ErrInvalidTransition
	}
	if !c.Valid() {
		return w, ErrInvalidCategory
	}
	w.Category = c
	w.Step = StepRating
	return w, nil
}

// Back moves RATING to CATEGORY and CATEGORY to IDENTIFY
func (w PollWizard) Back() (PollWizard, error) {
	switch w.Step {
	case StepRating:
		w.Step = StepCategory
	case StepCategory:
		w.Step = StepIdentify
	default:
		return w, ErrInvalidTransition
	}
	return w, nil
}

// CheckSubmission validates the RATING step input without changing state
func (w PollWizard) CheckSubmission(rating int, comment string) error {
	if w.Step != StepRating {
		return ErrInvalidTransition
	}
	if rating < RatingMin || rating > RatingMax {
		return ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	return nil
}

// Compose builds the feedback record the wizard will hand off on completion
func (w PollWizard) Compose(id string, rating int, comment string, sentiment Sentiment, source SentimentSource, now time.Time) Feedback {
	return Feedback{
		ID:              id,
		MunicipalityID:  w.MunicipalityID,
		CitizenName:     w.Identity.Name,
		CPF:             w.Identity.CPF,
		WhatsApp:        w.Identity.WhatsApp,
		Neighborhood:    w.Identity.Neighborhood,
		AreaType:        w.Identity.AreaType,
		Category:        w.Category,
		Rating:          rating,
		Comment:         strings.TrimSpace(comment),
		Sentiment:       sentiment,
		SentimentSource: source,
		Coords:          w.Identity.Coords,
		Timestamp:       now,
		Status:          FeedbackPending,
	}
}

// Succeed moves RATING to SUCCESS holding the composed feedback
func (w PollWizard) Succeed(f Feedback) (PollWizard, error) {
	if w.Step != StepRating {
		return w, ErrInvalidTransition
	}
	w.Feedback = &f
	w.Step = StepSuccess
	return w, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
