package csv

import (
	csv "encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

const fileMode = 0o644

// Sink appends rows to a UTF-8 CSV file. A header row is written only when the
// target file does not exist yet (or is empty); subsequent writes append data
// rows without repeating it.
type Sink struct {
	path string
}

var _ ports.RowSink = (*Sink)(nil)

func New(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Write(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	needHeader, err := s.needHeader()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(domain.Columns()); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
	}

	for _, row := range rows {
		record, err := renderRow(row)
		if err != nil {
			return fmt.Errorf("render row %d: %w", row.Seq, err)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row.Seq, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	return nil
}

func (s *Sink) needHeader() (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat output file: %w", err)
	}

	return info.Size() == 0, nil
}

func renderRow(row domain.Row) ([]string, error) {
	pendingChange, err := renderPendingChange(row.PendingChange)
	if err != nil {
		return nil, err
	}

	return []string{
		strconv.FormatInt(row.Seq, 10),
		row.Email,
		row.Name,
		row.StripeID,
		formatEpoch(row.CreatedAt),
		row.Frequency,
		formatAmount(row.PricingAmount),
		formatAmount(row.DiscountedPricingAmount),
		formatEpoch(row.NextBillingDate),
		formatEpoch(row.CancelDate),
		row.ActivePromoCode,
		pendingChange,
	}, nil
}

type pendingChangeJSON struct {
	Subject           string `json:"subject"`
	NewPlanCode       string `json:"new_plan_code"`
	NewPlanFrequency  string `json:"new_plan_frequency"`
	NewPlanPricing    int64  `json:"new_plan_pricing_amount"`
	NewPlanActivateAt int64  `json:"new_plan_activate_at"`
	NewPlanActivated  bool   `json:"new_plan_activated"`
}

func renderPendingChange(change *domain.PendingChange) (string, error) {
	if change == nil {
		return "", nil
	}

	encoded, err := json.Marshal(pendingChangeJSON{
		Subject:           change.Subject,
		NewPlanCode:       change.NewPlanCode,
		NewPlanFrequency:  domain.FrequencyLabel(change.NewPlanName),
		NewPlanPricing:    change.UnitAmountMinor,
		NewPlanActivateAt: epoch(change.ActivateAt),
		NewPlanActivated:  change.Activated,
	})
	if err != nil {
		return "", fmt.Errorf("encode pending change: %w", err)
	}

	return string(encoded), nil
}

func formatEpoch(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return strconv.FormatInt(epoch(value), 10)
}

func epoch(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}

	return value.UTC().Unix()
}

func formatAmount(value *int64) string {
	if value == nil {
		return ""
	}

	return strconv.FormatInt(*value, 10)
}
