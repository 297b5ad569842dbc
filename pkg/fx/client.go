// Package fx - клиент ExchangeRate-API (запросы курса пары валют).
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://v6.exchangerate-api.com/v6"
	ProviderName   = "exchangerate_api"

	requestTimeout = 10 * time.Second
	maxBodyPreview = 200
)

var (
	// ErrNoAPIKey - ключ API не настроен
	ErrNoAPIKey = errors.New("no API key configured, set EXCHANGERATE_API_KEY")
	// ErrFetch - ошибка получения курса, запрос можно повторить
	ErrFetch = errors.New("fx fetch failed")
)

// Client запрашивает курс пары на дату
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		now:     time.Now,
	}
}

type pairResponse struct {
	Result         string           `json:"result"`
	ErrorType      string           `json:"error-type"`
	ConversionRate *decimal.Decimal `json:"conversion_rate"`
}

// URL - на сегодня запрос pair, на прошедшую дату - history
func (c *Client) URL(base, quote string, date time.Time) string {
	if sameDay(date, c.now()) {
		return fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, c.apiKey, base, quote)
	}
	return fmt.Sprintf("%s/%s/history/%s/%s/%d/%d/%d",
		c.baseURL, c.apiKey, base, quote, date.Year(), int(date.Month()), date.Day())
}

// Rate возвращает курс base->quote на дату. Ошибки получения оборачивают ErrFetch.
func (c *Client) Rate(ctx context.Context, base, quote string, date time.Time) (decimal.Decimal, error) {
	if c.apiKey == "" {
		return decimal.Zero, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(base, quote, date), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: connection error: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(body)
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview]
		}
		return decimal.Zero, fmt.Errorf("%w: HTTP %d: %s", ErrFetch, resp.StatusCode, preview)
	}

	var data pairResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid JSON response: %v", ErrFetch, err)
	}

	if data.Result != "success" {
		errorType := data.ErrorType
		if errorType == "" {
			errorType = "unknown"
		}
		return decimal.Zero, fmt.Errorf("%w: API error: %s", ErrFetch, errorType)
	}
	if data.ConversionRate == nil {
		return decimal.Zero, fmt.Errorf("%w: no conversion_rate in response", ErrFetch)
	}
	if !data.ConversionRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value: %s", ErrFetch, data.ConversionRate)
	}

	return *data.ConversionRate, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
