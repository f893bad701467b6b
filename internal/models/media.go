package models

import (
	"bytes"
	"fmt"
	"time"
)

type Media struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	ContentType      string    `json:"contentType"`
	FileSize         int64     `json:"fileSize"`
	OriginalFilename string    `json:"originalFilename"`
	UploadedAt       Timestamp `json:"uploadedAt"`
	URL              string    `json:"url"`
}

// File is an upload candidate. Content may be nil when only metadata is
// known, e.g. for a pre-flight check.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// Timestamp accepts both RFC 3339 and zone-less local date-times, which is
// what the media service emits.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", data)
	}
	raw := string(data[1 : len(data)-1])
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339Nano) + `"`), nil
}
