package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/balkashynov/feelog/internal/models"
)

// ListRecords returns one page of the user's records.
func (c *Client) ListRecords(ctx context.Context, limit, offset int) ([]models.EmotionRecord, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/records", Query: query})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, nil
	}
	return decodeData[[]models.EmotionRecord](resp)
}

// RecordByDate returns the record for date, or nil when there is none.
func (c *Client) RecordByDate(ctx context.Context, date string) (*models.EmotionRecord, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/records/date/" + url.PathEscape(date),
	})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, nil
	}
	record, err := decodeData[*models.EmotionRecord](resp)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateRecord stores a new record. The server allows one per date.
func (c *Client) CreateRecord(ctx context.Context, req models.RecordRequest) (*models.EmotionRecord, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/records", Body: req})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, notFound(resp, "records endpoint")
	}
	return decodeRecord(resp)
}

// UpdateRecord replaces the fields of record id.
func (c *Client) UpdateRecord(ctx context.Context, id int64, req models.RecordRequest) (*models.EmotionRecord, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodPut, Path: recordPath(id), Body: req})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, notFound(resp, "record #"+strconv.FormatInt(id, 10))
	}
	return decodeRecord(resp)
}

// DeleteRecord removes record id. Deleting an absent record returns
// ErrNotFound.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: recordPath(id)})
	if err != nil {
		return err
	}
	if resp.NotFound {
		return notFound(resp, "record #"+strconv.FormatInt(id, 10))
	}
	return nil
}

// SearchParams filters a record search. Empty fields are not sent.
type SearchParams struct {
	Query    string
	DateFrom string
	DateTo   string
}

// SearchRecords runs a full-text search over the user's records.
func (c *Client) SearchRecords(ctx context.Context, params SearchParams) ([]models.EmotionRecord, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.DateFrom != "" {
		query.Set("date_from", params.DateFrom)
	}
	if params.DateTo != "" {
		query.Set("date_to", params.DateTo)
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/records/search", Query: query})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, nil
	}
	return decodeData[[]models.EmotionRecord](resp)
}

// CalendarMonth returns the per-date summary of a month. A month the server
// knows nothing about comes back empty.
func (c *Client) CalendarMonth(ctx context.Context, year, month int) (*models.CalendarMonth, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/calendar/" + strconv.Itoa(year) + "/" + strconv.Itoa(month),
	})
	if err != nil {
		return nil, err
	}

	cal := &models.CalendarMonth{Year: year, Month: month}
	if !resp.NotFound {
		decoded, err := decodeData[models.CalendarMonth](resp)
		if err != nil {
			return nil, err
		}
		cal.Records = decoded.Records
	}
	if cal.Records == nil {
		cal.Records = make(map[string]models.CalendarDay)
	}
	return cal, nil
}

func recordPath(id int64) string {
	return "/records/" + strconv.FormatInt(id, 10)
}

func decodeRecord(resp *Response) (*models.EmotionRecord, error) {
	record, err := decodeData[*models.EmotionRecord](resp)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &Error{Kind: ErrServerFault, Status: resp.Status, Message: "response has no record"}
	}
	return record, nil
}
