package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"transaction-dashboard/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var (
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrStorageWrite  = errors.New("storage write failed")
)

// Writer persists a batch of transactions atomically.
type Writer interface {
	InsertBatch(ctx context.Context, items []models.Transaction) (int, error)
}

type SeedSummary struct {
	Inserted int `json:"inserted"`
}

// feedRecord mirrors one element of the seed JSON array.
type feedRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Sold        bool    `json:"sold"`
	DateOfSale  string  `json:"dateOfSale"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type Seeder struct {
	url    string
	client *resty.Client
	store  Writer
	log    zerolog.Logger
}

func New(url string, timeout time.Duration, store Writer, log zerolog.Logger) *Seeder {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &Seeder{
		url:    url,
		client: client,
		store:  store,
		log:    log.With().Str("component", "seeder").Logger(),
	}
}

// Seed downloads the feed and appends every record to the store.
// Calling it twice stores every record twice.
func (s *Seeder) Seed(ctx context.Context) (SeedSummary, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return SeedSummary{}, err
	}
	s.log.Info().Int("records", len(records)).Str("url", s.url).Msg("fetched seed feed")

	items := make([]models.Transaction, 0, len(records))
	for i, raw := range records {
		t, err := decodeRecord(raw)
		if err != nil {
			return SeedSummary{}, fmt.Errorf("%w: record %d: %v", ErrStorageWrite, i, err)
		}
		items = append(items, t)
	}

	n, err := s.store.InsertBatch(ctx, items)
	if err != nil {
		return SeedSummary{}, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	s.log.Info().Int("inserted", n).Msg("seed batch stored")
	return SeedSummary{Inserted: n}, nil
}

// fetch returns the raw elements of the feed array. Anything other than an
// array of objects is an upstream failure; field contents are checked later.
func (s *Seeder) fetch(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrUpstreamFetch)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	for i, raw := range records {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrUpstreamFetch, i)
		}
	}
	return records, nil
}

func decodeRecord(raw json.RawMessage) (models.Transaction, error) {
	var r feedRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.Transaction{}, err
	}
	return r.toTransaction()
}

func (r feedRecord) toTransaction() (models.Transaction, error) {
	date, err := parseDate(r.DateOfSale)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Sold:        r.Sold,
		DateOfSale:  date,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable dateOfSale %q", value)
}
