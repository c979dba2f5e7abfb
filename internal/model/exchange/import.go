package exchange

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// importDateLayouts are tried in order when parsing a candidate's date.
// The CSV display form comes first, then the JSON wire form.
var importDateLayouts = []string{csvDateLayout, time.RFC3339, "2006-01-02"}

// DetectFormat maps a file name onto a payload format.
func DetectFormat(fileName string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Parse decodes an import payload into candidate records. Every candidate
// gets a fresh id, whatever the source carried. Per-field problems in CSV
// rows degrade to defaults (amount 0, category Other, date now); a payload
// that cannot be decoded at all fails the whole import.
func Parse(data []byte, format Format, nowTime time.Time) ([]expense.Record, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatCSV:
		return parseCSV(data, nowTime)
	}
	return nil, errors.Errorf("unsupported import format %q", format)
}

func parseJSON(data []byte) ([]expense.Record, error) {
	var candidates []expense.Record
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, errors.Wrap(err, "parse json payload")
	}
	for i := range candidates {
		candidates[i].ID = uuid.NewString()
		candidates[i].Category = expense.NormalizeCategory(candidates[i].Category)
		// source offsets must not leak into month/day bucketing
		candidates[i].Date = candidates[i].Date.UTC()
	}
	return candidates, nil
}

func parseCSV(data []byte, nowTime time.Time) ([]expense.Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	// header row, discarded
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "parse csv header")
	}

	var candidates []expense.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse csv row")
		}
		candidates = append(candidates, recordFromRow(row, nowTime))
	}
	return candidates, nil
}

func recordFromRow(row []string, nowTime time.Time) expense.Record {
	amount, err := strconv.ParseFloat(field(row, 1), 64)
	if err != nil {
		amount = 0
	}

	date := nowTime
	for _, layout := range importDateLayouts {
		parsed, perr := time.Parse(layout, field(row, 3))
		if perr == nil {
			date = parsed
			break
		}
	}

	return expense.Record{
		ID:       uuid.NewString(),
		Title:    field(row, 0),
		Amount:   amount,
		Category: expense.NormalizeCategory(field(row, 2)),
		Date:     date.UTC(),
		Note:     field(row, 4),
	}
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// dedupKey is the composite identity used by the reconciler: same title on
// the same timestamp means the same expense.
func dedupKey(rec expense.Record) string {
	return rec.Title + "-" + rec.Date.UTC().Format(time.RFC3339)
}

// Merge reconciles candidates against the existing set. A candidate is
// accepted only when its title+date key is not already present; accepted
// records are returned in candidate order. Existing records are never
// touched.
func Merge(existing, candidates []expense.Record) []expense.Record {
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[dedupKey(rec)] = struct{}{}
	}

	accepted := make([]expense.Record, 0, len(candidates))
	for _, cand := range candidates {
		key := dedupKey(cand)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, cand)
	}
	return accepted
}
