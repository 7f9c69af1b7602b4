package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// valueInputOption lets the sheet parse dates and numbers like manual entry.
const valueInputOption = "USER_ENTERED"

// GoogleValues talks to the Google Sheets values API.
type GoogleValues struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

var _ ValuesAPI = (*GoogleValues)(nil)

// NewGoogleValues builds a Sheets client. Authentication comes from opts,
// e.g. option.WithTokenSource.
func NewGoogleValues(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleValues, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &GoogleValues{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleValues) Append(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, rng, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleValues) Get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *GoogleValues) Update(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, rng, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return err
}
