package expense

import (
	"strings"
	"time"
)

const (
	Food          = "Food"
	Transport     = "Transport"
	Bills         = "Bills"
	Entertainment = "Entertainment"
	Other         = "Other"
)

var Categories = []string{Food, Transport, Bills, Entertainment, Other}

// Record is a single expense entry. Records never change after creation;
// the store only appends them and removes them by ID.
type Record struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
}

// NormalizeCategory maps free-form input onto the known category set.
// Anything empty or unrecognized becomes Other.
func NormalizeCategory(cat string) string {
	cat = strings.TrimSpace(cat)
	for _, known := range Categories {
		if strings.EqualFold(cat, known) {
			return known
		}
	}
	return Other
}
