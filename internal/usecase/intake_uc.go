package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram-academy-intake/internal/domain"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
	"telegram-academy-intake/internal/domain/ports/repository"
	"telegram-academy-intake/internal/infra/logging"
	"telegram-academy-intake/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Event tells the caller what the conversation did with an inbound answer,
// so the presentation layer can pick the matching prompt.
type Event int

const (
	EventNone Event = iota
	EventAskName
	EventAskAge
	EventAskGoal
	EventAskCountry
	EventAskGender
	EventGenderReprompt
	EventCompleted
	EventWriteFailed
	EventCancelled
)

// Compile-time check
var _ IntakeUseCase = (*intakeUC)(nil)

// IntakeUseCase is the registration conversation state machine. One user,
// one session; the dispatcher guarantees events for a user arrive serially.
type IntakeUseCase interface {
	// Begin enters the flow from idle. Re-entering discards any prior
	// draft, so a restart is always a fresh one.
	Begin(ctx context.Context, tgID int64) (Event, error)
	// Advance feeds one free-text answer into the active session.
	// Returns domain.ErrNotRegistering when the user is idle.
	Advance(ctx context.Context, tgID int64, username, text string) (Event, error)
	// Cancel discards the draft from any non-idle step; a no-op when idle.
	Cancel(ctx context.Context, tgID int64) (Event, error)
	// Step reports where the user currently is (StepIdle when no session).
	Step(ctx context.Context, tgID int64) (model.Step, error)
}

type intakeUC struct {
	sessions repository.SessionRepository
	sink     adapter.RegistrationSink
	archive  repository.ArchiveRepository // optional, may be nil
	log      *zerolog.Logger
}

func NewIntakeUseCase(sessions repository.SessionRepository, sink adapter.RegistrationSink, archive repository.ArchiveRepository, logger *zerolog.Logger) *intakeUC {
	return &intakeUC{
		sessions: sessions,
		sink:     sink,
		archive:  archive,
		log:      logger,
	}
}

func (u *intakeUC) Begin(ctx context.Context, tgID int64) (Event, error) {
	defer logging.TraceDuration(u.log, "IntakeUC.Begin")()

	sess := &repository.Session{Step: model.StepAwaitingName}
	if err := u.sessions.Set(ctx, tgID, sess); err != nil {
		return EventNone, fmt.Errorf("start session: %w", err)
	}
	metrics.IncIntakeStarted()
	return EventAskName, nil
}

func (u *intakeUC) Advance(ctx context.Context, tgID int64, username, text string) (Event, error) {
	defer logging.TraceDuration(u.log, "IntakeUC.Advance")()

	sess, err := u.sessions.Get(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return EventNone, domain.ErrNotRegistering
	}
	if err != nil {
		return EventNone, fmt.Errorf("load session: %w", err)
	}

	switch sess.Step {
	case model.StepAwaitingName:
		sess.Draft.Name = text
		return u.moveTo(ctx, tgID, sess, model.StepAwaitingAge, EventAskAge)
	case model.StepAwaitingAge:
		sess.Draft.Age = text
		return u.moveTo(ctx, tgID, sess, model.StepAwaitingGoal, EventAskGoal)
	case model.StepAwaitingGoal:
		sess.Draft.Goal = text
		return u.moveTo(ctx, tgID, sess, model.StepAwaitingCountry, EventAskCountry)
	case model.StepAwaitingCountry:
		sess.Draft.Country = text
		return u.moveTo(ctx, tgID, sess, model.StepAwaitingGender, EventAskGender)
	case model.StepAwaitingGender:
		return u.finalize(ctx, tgID, username, sess, text)
	default:
		return EventNone, fmt.Errorf("%w: step %q", domain.ErrInvalidArgument, sess.Step)
	}
}

// moveTo persists the updated draft and advances the step in one write.
func (u *intakeUC) moveTo(ctx context.Context, tgID int64, sess *repository.Session, next model.Step, ev Event) (Event, error) {
	sess.Step = next
	if err := u.sessions.Set(ctx, tgID, sess); err != nil {
		return EventNone, fmt.Errorf("save session: %w", err)
	}
	return ev, nil
}

// finalize validates the gender answer, seals the record and performs the
// single best-effort sink write. The session is cleared before the write:
// whatever the sink does, this conversation is over (at-most-once).
func (u *intakeUC) finalize(ctx context.Context, tgID int64, username string, sess *repository.Session, text string) (Event, error) {
	gender, err := model.ParseGender(text)
	if err != nil {
		// Stay on the gender step; the draft is untouched.
		metrics.IncGenderReprompt()
		return EventGenderReprompt, nil
	}

	rec, err := model.NewRecord(sess.Draft, gender, tgID, username)
	if err != nil {
		// A draft can only get here fully populated; treat anything else
		// as a corrupted session and drop it.
		_ = u.sessions.Clear(ctx, tgID)
		return EventNone, fmt.Errorf("seal record: %w", err)
	}

	if err := u.sessions.Clear(ctx, tgID); err != nil {
		return EventNone, fmt.Errorf("clear session: %w", err)
	}

	start := time.Now()
	err = u.sink.Append(ctx, rec)
	metrics.ObserveSinkAppend(gender.Tag(), time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		u.log.Error().Err(err).Int64("tg_id", tgID).Str("worksheet", gender.Tag()).Msg("sink append failed")
		metrics.IncIntakeCompleted(gender.Tag(), repository.OutcomeFailed)
		u.archiveRecord(ctx, rec, repository.OutcomeFailed)
		return EventWriteFailed, nil
	}

	metrics.IncIntakeCompleted(gender.Tag(), repository.OutcomeWritten)
	u.archiveRecord(ctx, rec, repository.OutcomeWritten)
	return EventCompleted, nil
}

// archiveRecord is best-effort; archive failures must not surface to the user.
func (u *intakeUC) archiveRecord(ctx context.Context, rec *model.Record, outcome string) {
	if u.archive == nil {
		return
	}
	if err := u.archive.Save(ctx, rec, outcome); err != nil {
		u.log.Warn().Err(err).Str("record_id", rec.ID).Msg("archive save failed")
	}
}

func (u *intakeUC) Cancel(ctx context.Context, tgID int64) (Event, error) {
	defer logging.TraceDuration(u.log, "IntakeUC.Cancel")()

	_, err := u.sessions.Get(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return EventNone, nil
	}
	if err != nil {
		return EventNone, fmt.Errorf("load session: %w", err)
	}
	if err := u.sessions.Clear(ctx, tgID); err != nil {
		return EventNone, fmt.Errorf("clear session: %w", err)
	}
	metrics.IncIntakeCancelled()
	return EventCancelled, nil
}

func (u *intakeUC) Step(ctx context.Context, tgID int64) (model.Step, error) {
	sess, err := u.sessions.Get(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return model.StepIdle, nil
	}
	if err != nil {
		return model.StepIdle, err
	}
	return sess.Step, nil
}
