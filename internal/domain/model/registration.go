package model

import (
	"strconv"
	"time"

	"telegram-academy-intake/internal/domain"

	"github.com/google/uuid"
)

// Gender is the reported gender label. Only the two exact Arabic labels the
// intake keyboard offers are valid; everything else is rejected and
// re-prompted, never coerced.
type Gender string

const (
	GenderMale   Gender = "ذَكر"
	GenderFemale Gender = "أنثى"
)

// Tag returns the ASCII label used for metrics and archive rows.
func (g Gender) Tag() string {
	if g == GenderMale {
		return "male"
	}
	return "female"
}

// ParseGender validates a free-text answer against the two accepted labels.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	default:
		return "", domain.ErrInvalidGender
	}
}

// Step identifies where a user currently is in the intake conversation.
type Step string

const (
	StepIdle            Step = "idle"
	StepAwaitingName    Step = "awaiting_name"
	StepAwaitingAge     Step = "awaiting_age"
	StepAwaitingGoal    Step = "awaiting_goal"
	StepAwaitingCountry Step = "awaiting_country"
	StepAwaitingGender  Step = "awaiting_gender"
)

// Draft is the in-progress registration for one user. Fields are filled
// strictly in step order and are never overwritten by a later step.
// Only gender is ever validated; the other answers are free text on purpose.
type Draft struct {
	Name    string `json:"name,omitempty"`
	Age     string `json:"age,omitempty"`
	Goal    string `json:"goal,omitempty"`
	Country string `json:"country,omitempty"`
}

// Record is a finalized registration, immutable after creation. It exists
// only for the single write attempt against the sink (and the optional
// archive copy).
type Record struct {
	ID          string
	Name        string
	Age         string
	Goal        string
	Country     string
	Gender      Gender
	TelegramID  int64
	Username    string
	CompletedAt time.Time
}

// NewRecord seals a draft into a Record. The draft must be fully populated;
// gender must already be validated by the caller.
func NewRecord(d Draft, gender Gender, tgID int64, username string) (*Record, error) {
	if d.Name == "" || d.Age == "" || d.Goal == "" || d.Country == "" {
		return nil, domain.ErrInvalidArgument
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Record{
		ID:          uuid.NewString(),
		Name:        d.Name,
		Age:         d.Age,
		Goal:        d.Goal,
		Country:     d.Country,
		Gender:      gender,
		TelegramID:  tgID,
		Username:    username,
		CompletedAt: time.Now(),
	}, nil
}

// Row returns the ordered field list appended to the spreadsheet:
// name, age, goal, country, gender, telegram id, username.
func (r *Record) Row() []string {
	return []string{r.Name, r.Age, r.Goal, r.Country, string(r.Gender), strconv.FormatInt(r.TelegramID, 10), r.Username}
}
