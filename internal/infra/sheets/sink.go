package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"telegram-academy-intake/internal/config"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
)

// Worksheet titles are a fixed contract with the academy's spreadsheet; they
// are not configurable anywhere.
const (
	worksheetMale   = "الذكور"
	worksheetFemale = "الاناث"
)

var _ adapter.RegistrationSink = (*Sink)(nil)

// Sink appends completed registrations to the academy spreadsheet, one
// worksheet per gender. Every call is a single fire-and-forget append: no
// transaction, no retry, duplicates produce duplicate rows.
type Sink struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSink builds the Sheets client from the service-account credentials
// file and verifies the spreadsheet is reachable, so a bad credential or id
// fails at startup rather than on the first registration.
func NewSink(ctx context.Context, cfg *config.SheetsConfig) (*Sink, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if _, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}
	return &Sink{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (s *Sink) Append(ctx context.Context, rec *model.Record) error {
	row := make([]interface{}, 0, 7)
	for _, v := range rec.Row() {
		row = append(row, v)
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, appendRange(rec.Gender), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", rec.Gender.Tag(), err)
	}
	return nil
}

// Worksheet returns the destination worksheet title for a gender.
func Worksheet(g model.Gender) string {
	if g == model.GenderMale {
		return worksheetMale
	}
	return worksheetFemale
}

func appendRange(g model.Gender) string {
	return fmt.Sprintf("'%s'!A:G", Worksheet(g))
}
