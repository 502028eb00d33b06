package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-gin-calendar/internal/model"

	"go.uber.org/zap"
)

// Provider 依年份與國碼查詢公眾假日
type Provider interface {
	PublicHolidays(ctx context.Context, year int, country string) ([]model.Holiday, error)
}

type NagerClient struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
}

func NewNagerClient(logger *zap.Logger, baseURL string) *NagerClient {
	return &NagerClient{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type nagerHoliday struct {
	Date      string   `json:"date"`
	LocalName string   `json:"localName"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
}

func (c *NagerClient) PublicHolidays(ctx context.Context, year int, country string) ([]model.Holiday, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, strings.ToUpper(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 204 代表該國家沒有資料
	if resp.StatusCode == http.StatusNoContent {
		return []model.Holiday{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday api returned status %d for %d/%s", resp.StatusCode, year, country)
	}

	var raw []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	holidays := make([]model.Holiday, 0, len(raw))
	for _, h := range raw {
		kind := model.DefaultHolidayType
		if len(h.Types) > 0 && h.Types[0] != "" {
			kind = h.Types[0]
		}
		holidays = append(holidays, model.Holiday{Date: h.Date, Name: h.Name, Type: kind})
	}

	c.logger.Debug("holidays fetched", zap.Int("year", year), zap.String("country", country), zap.Int("count", len(holidays)))
	return holidays, nil
}
