package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/model/notify"
)

const dateLayout = "02.01.2006"

type config interface {
	Endpoint() string
	ApiKey() string
	To() string
}

// Client talks to the transactional mail HTTP API.
type Client struct {
	endpoint string
	apiKey   string
	to       string
	http     *http.Client
}

type mailPayload struct {
	ToEmail         string `json:"to_email"`
	ExpenseTitle    string `json:"expense_title"`
	ExpenseAmount   string `json:"expense_amount"`
	ExpenseCategory string `json:"expense_category"`
	ExpenseDate     string `json:"expense_date"`
	MonthlyTotal    string `json:"monthly_total"`
}

func New(cfg config) *Client {
	return &Client{
		endpoint: cfg.Endpoint(),
		apiKey:   cfg.ApiKey(),
		to:       cfg.To(),
		http:     &http.Client{},
	}
}

func (c *Client) SendExpenseNotification(ctx context.Context, req notify.Request) error {
	payload := mailPayload{
		ToEmail:         c.to,
		ExpenseTitle:    req.Record.Title,
		ExpenseAmount:   fmt.Sprintf("%.2f", req.Record.Amount),
		ExpenseCategory: req.Record.Category,
		ExpenseDate:     req.Record.Date.Format(dateLayout),
		MonthlyTotal:    fmt.Sprintf("%.2f", req.MonthTotal),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal mail payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build mail request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", c.apiKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "send mail request")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errors.Errorf("mail api responded with status %d", res.StatusCode)
	}
	return nil
}
