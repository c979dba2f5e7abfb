package exchange

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// Format of an export/import payload, derived from the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	// csvDateLayout is the display form dates take in CSV exports.
	csvDateLayout = "02.01.2006"

	MimeCSV  = "text/csv"
	MimeJSON = "application/json"
)

var csvHeader = []string{"Title", "Amount", "Category", "Date", "Note"}

// FileName builds the export file name for the given day.
func FileName(format Format, day time.Time) string {
	return fmt.Sprintf("expenses_%s.%s", day.Format("2006-01-02"), format)
}

// ExportCSV renders the full record set as CSV with a fixed header row.
// Fields are quoted per RFC 4180, so titles and notes holding commas or
// quotes survive a round trip.
func ExportCSV(records []expense.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	for _, rec := range records {
		cat := rec.Category
		if cat == "" {
			cat = expense.Other
		}
		row := []string{
			rec.Title,
			strconv.FormatFloat(rec.Amount, 'f', -1, 64),
			cat,
			rec.Date.Format(csvDateLayout),
			rec.Note,
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "write csv record")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}
	return buf.Bytes(), nil
}

// ExportJSON renders the full record set as a pretty-printed array,
// ids included.
func ExportJSON(records []expense.Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	return data, errors.Wrap(err, "marshal records")
}
