package exchange

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

var nowStub = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func exportRecords() []expense.Record {
	return []expense.Record{
		{ID: "id-1", Title: "Groceries", Amount: 70.5, Category: expense.Food,
			Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Note: "weekly"},
		{ID: "id-2", Title: "Metro", Amount: 50, Category: expense.Transport,
			Date: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func Test_OnFileName_ShouldEmbedDayAndExtension(t *testing.T) {
	day := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "expenses_2024-03-15.csv", FileName(FormatCSV, day))
	assert.Equal(t, "expenses_2024-03-15.json", FileName(FormatJSON, day))
}

func Test_OnDetectFormat_ShouldMapExtensions(t *testing.T) {
	format, ok := DetectFormat("expenses_2024-03-15.CSV")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, format)

	format, ok = DetectFormat("backup.json")
	assert.True(t, ok)
	assert.Equal(t, FormatJSON, format)

	_, ok = DetectFormat("notes.txt")
	assert.False(t, ok)
}

func Test_OnExportCSV_ShouldWriteHeaderAndRows(t *testing.T) {
	data, err := ExportCSV(exportRecords())
	assert.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Title", "Amount", "Category", "Date", "Note"},
		{"Groceries", "70.5", "Food", "05.03.2024", "weekly"},
		{"Metro", "50", "Transport", "03.03.2024", ""},
	}, rows)
}

func Test_OnExportCSV_ShouldSurviveCommasAndQuotes(t *testing.T) {
	records := []expense.Record{{
		ID: "id-1", Title: `Dinner, "fancy"`, Amount: 120, Category: expense.Food,
		Date: time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
	}}

	data, err := ExportCSV(records)
	assert.NoError(t, err)

	parsed, err := Parse(data, FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)
	assert.Equal(t, `Dinner, "fancy"`, parsed[0].Title)
}

func Test_OnExportJSON_ShouldRoundTripModuloIDs(t *testing.T) {
	records := exportRecords()

	data, err := ExportJSON(records)
	assert.NoError(t, err)

	parsed, err := Parse(data, FormatJSON, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, len(records))
	for i, rec := range parsed {
		assert.NotEqual(t, records[i].ID, rec.ID)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, records[i].Title, rec.Title)
		assert.Equal(t, records[i].Amount, rec.Amount)
		assert.Equal(t, records[i].Category, rec.Category)
		assert.True(t, records[i].Date.Equal(rec.Date))
	}
}

func Test_OnParseJSON_ShouldBucketOffsetDatesByUTCCalendar(t *testing.T) {
	// 02:00+03:00 is 23:00 UTC the previous day
	payload := `[{"title":"Taxi","amount":12,"category":"Transport",` +
		`"date":"2024-04-01T02:00:00+03:00"}]`

	parsed, err := Parse([]byte(payload), FormatJSON, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)

	rec := parsed[0]
	assert.Equal(t, time.UTC, rec.Date.Location())
	assert.Equal(t, "2024-03", rec.Date.Format("2006-01"))
	assert.Equal(t, "2024-03-31", rec.Date.Format("2006-01-02"))
}

func Test_OnParseJSON_ShouldFailOnMalformedPayload(t *testing.T) {
	_, err := Parse([]byte(`{"not":"an array"`), FormatJSON, nowStub)
	assert.Error(t, err)
}

func Test_OnParseCSV_ShouldDefaultBrokenFields(t *testing.T) {
	payload := "Title,Amount,Category,Date,Note\n" +
		"Mystery,not-a-number,weird-cat,bad-date,\n"

	parsed, err := Parse([]byte(payload), FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)

	rec := parsed[0]
	assert.Equal(t, "Mystery", rec.Title)
	assert.Equal(t, 0.0, rec.Amount)
	assert.Equal(t, expense.Other, rec.Category)
	assert.True(t, nowStub.Equal(rec.Date))
}

func Test_OnParseCSV_ShouldHandleShortRows(t *testing.T) {
	payload := "Title,Amount,Category,Date,Note\nCoffee,3.5\n"

	parsed, err := Parse([]byte(payload), FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)
	assert.Equal(t, "Coffee", parsed[0].Title)
	assert.Equal(t, 3.5, parsed[0].Amount)
	assert.Equal(t, expense.Other, parsed[0].Category)
}

func Test_OnParseCSV_ShouldAcceptSeveralDateForms(t *testing.T) {
	payload := "Title,Amount,Category,Date,Note\n" +
		"a,1,Food,05.03.2024,\n" +
		"b,1,Food,2024-03-05T10:30:00Z,\n" +
		"c,1,Food,2024-03-05,\n"

	parsed, err := Parse([]byte(payload), FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Len(t, parsed, 3)
	for _, rec := range parsed {
		assert.Equal(t, "2024-03-05", rec.Date.UTC().Format("2006-01-02"), rec.Title)
	}
}

func Test_OnParseCSV_ShouldTreatHeaderOnlyAsEmpty(t *testing.T) {
	parsed, err := Parse([]byte("Title,Amount,Category,Date,Note\n"), FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Empty(t, parsed)

	parsed, err = Parse(nil, FormatCSV, nowStub)
	assert.NoError(t, err)
	assert.Empty(t, parsed)
}

func Test_OnMerge_ShouldDropDuplicatesOfExisting(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	existing := []expense.Record{{ID: "old", Title: "Groceries", Amount: 70, Date: d}}
	candidates := []expense.Record{
		{ID: "new-1", Title: "Groceries", Amount: 70, Date: d},
		{ID: "new-2", Title: "Cinema", Amount: 20, Date: d},
	}

	accepted := Merge(existing, candidates)

	assert.Len(t, accepted, 1)
	assert.Equal(t, "new-2", accepted[0].ID)
}

func Test_OnMerge_ShouldDropDuplicatesWithinCandidates(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	candidates := []expense.Record{
		{ID: "new-1", Title: "Cinema", Amount: 20, Date: d},
		{ID: "new-2", Title: "Cinema", Amount: 20, Date: d},
	}

	accepted := Merge(nil, candidates)

	assert.Len(t, accepted, 1)
	assert.Equal(t, "new-1", accepted[0].ID)
}

func Test_OnMerge_ShouldAcceptSameTitleOnDifferentDates(t *testing.T) {
	existing := []expense.Record{{
		Title: "Coffee", Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	}}
	candidates := []expense.Record{{
		ID: "new", Title: "Coffee", Date: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
	}}

	assert.Len(t, Merge(existing, candidates), 1)
}

func Test_OnMerge_ShouldBeNoOpForAllDuplicates(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	existing := []expense.Record{{Title: "Coffee", Date: d}}

	accepted := Merge(existing, []expense.Record{{Title: "Coffee", Date: d}})
	assert.Empty(t, accepted)
}
