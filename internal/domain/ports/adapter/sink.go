package adapter

import (
	"context"

	"telegram-academy-intake/internal/domain/model"
)

// RegistrationSink appends a completed record as a new row to exactly one of
// two append-only destination tables, selected solely by the record's
// gender. The write is best-effort: no transaction, no retry, no
// idempotency key, so a duplicate submission produces a duplicate row.
type RegistrationSink interface {
	Append(ctx context.Context, rec *model.Record) error
}
