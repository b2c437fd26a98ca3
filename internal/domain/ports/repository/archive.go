package repository

import (
	"context"

	"telegram-academy-intake/internal/domain/model"
)

// Sink write outcomes recorded in the archive.
const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
)

// ArchiveRepository keeps an optional local append-only copy of finalized
// records together with the sink write outcome. Purely observational; the
// intake flow works identically without one.
type ArchiveRepository interface {
	Save(ctx context.Context, rec *model.Record, outcome string) error
	Count(ctx context.Context) (int, error)
}
