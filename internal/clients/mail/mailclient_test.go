package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/notify"
)

type testConfig struct {
	endpoint string
}

func (c testConfig) Endpoint() string { return c.endpoint }
func (c testConfig) ApiKey() string   { return "test-key" }
func (c testConfig) To() string       { return "user@example.com" }

func testRequest() notify.Request {
	return notify.Request{
		UserID: 123,
		Record: expense.Record{
			ID: "id-1", Title: "Coffee", Amount: 3.5, Category: expense.Food,
			Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		},
		MonthTotal: 140,
	}
}

func Test_OnSendExpenseNotification_ShouldPostTemplatePayload(t *testing.T) {
	var got map[string]string
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("apikey")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	client := New(testConfig{endpoint: srv.URL})
	err := client.SendExpenseNotification(context.Background(), testRequest())

	assert.NoError(t, err)
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, map[string]string{
		"to_email":         "user@example.com",
		"expense_title":    "Coffee",
		"expense_amount":   "3.50",
		"expense_category": "Food",
		"expense_date":     "05.03.2024",
		"monthly_total":    "140.00",
	}, got)
}

func Test_OnSendExpenseNotification_ShouldFailOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(testConfig{endpoint: srv.URL})
	err := client.SendExpenseNotification(context.Background(), testRequest())

	assert.Error(t, err)
}
