package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const outcomeWriteRange = "Hatches!A:E"

// Exporter defines the hatch-outcome export operations supported by the
// Google Sheets adapter.
type Exporter interface {
	AppendOutcomeRow(ctx context.Context, batch models.Batch) error
}

// GoogleSheetExporter implements the Exporter interface using the official
// Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendOutcomeRow appends one batch outcome to the hatches sheet.
func (e *GoogleSheetExporter) AppendOutcomeRow(ctx context.Context, batch models.Batch) error {
	values := []interface{}{
		batch.IntakeDate.Format(models.DateLayout),
		batch.Name,
		batch.EggCount,
		batch.HatchedCount,
		batch.HatchRate,
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, outcomeWriteRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append outcome row into range %s: %w", outcomeWriteRange, err)
	}

	e.logger.Debug("outcome row appended to sheet", zap.String("batch_id", batch.ID))
	return nil
}
