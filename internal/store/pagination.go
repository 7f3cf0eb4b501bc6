package store

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/safar/go-storefront/internal/database"
)

type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

type OffsetPage[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.PageSize
}

// newOffsetPage rejects a page past the last one; page 1 of an empty result
// is valid.
func newOffsetPage[T any](items []T, total int64, req PageRequest) (*OffsetPage[T], error) {
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}
	if req.Page > 1 && req.Page > totalPages {
		return nil, database.ErrInvalidPage
	}
	if items == nil {
		items = []T{}
	}

	return &OffsetPage[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// MapPage converts the items of a page while keeping its position fields.
func MapPage[T, U any](page *OffsetPage[T], fn func(T) U) *OffsetPage[U] {
	out := make([]U, len(page.Items))
	for i, item := range page.Items {
		out[i] = fn(item)
	}
	return &OffsetPage[U]{
		Items:      out,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

type ReviewCursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        int64     `json:"id"`
}

func EncodeCursor(cursor ReviewCursor) string {
	data, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor treats an empty string as "start from the newest review".
func DecodeCursor(encoded string) (ReviewCursor, error) {
	var cursor ReviewCursor
	if encoded == "" {
		return ReviewCursor{
			CreatedAt: time.Now().Add(time.Hour),
			ID:        int64(1<<63 - 1),
		}, nil
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return cursor, err
	}

	err = json.Unmarshal(data, &cursor)
	return cursor, err
}
