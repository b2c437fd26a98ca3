//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-academy-intake/internal/domain"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
	"telegram-academy-intake/internal/domain/ports/repository"
)

// ---- Mock SessionRepository ----

type MockSessionRepo struct {
	mu   sync.Mutex
	data map[int64]repository.Session

	SetFunc   func(ctx context.Context, tgID int64, sess *repository.Session) error
	GetFunc   func(ctx context.Context, tgID int64) (*repository.Session, error)
	ClearFunc func(ctx context.Context, tgID int64) error
}

var _ repository.SessionRepository = (*MockSessionRepo)(nil)

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{data: make(map[int64]repository.Session)}
}

func (m *MockSessionRepo) Set(ctx context.Context, tgID int64, sess *repository.Session) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, tgID, sess)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[tgID] = *sess
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, tgID int64) (*repository.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.data[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := sess
	return &out, nil
}

func (m *MockSessionRepo) Clear(ctx context.Context, tgID int64) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, tgID)
	return nil
}

// ---- Mock RegistrationSink ----

// MockSink captures appended records per worksheet so tests can assert
// "one row here, zero rows there".
type MockSink struct {
	mu     sync.Mutex
	Male   []*model.Record
	Female []*model.Record

	AppendFunc func(ctx context.Context, rec *model.Record) error
}

var _ adapter.RegistrationSink = (*MockSink)(nil)

func (m *MockSink) Append(ctx context.Context, rec *model.Record) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Gender == model.GenderMale {
		m.Male = append(m.Male, rec)
	} else {
		m.Female = append(m.Female, rec)
	}
	return nil
}

func (m *MockSink) Rows() (male, female int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Male), len(m.Female)
}

// ---- Mock ArchiveRepository ----

type archived struct {
	Rec     *model.Record
	Outcome string
}

type MockArchiveRepo struct {
	mu    sync.Mutex
	Saved []archived

	SaveFunc func(ctx context.Context, rec *model.Record, outcome string) error
}

var _ repository.ArchiveRepository = (*MockArchiveRepo)(nil)

func (m *MockArchiveRepo) Save(ctx context.Context, rec *model.Record, outcome string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rec, outcome)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, archived{Rec: rec, Outcome: outcome})
	return nil
}

func (m *MockArchiveRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved), nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
