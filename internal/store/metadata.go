package store

import (
	"time"

	"github.com/vitaminmoo/hexpeek/internal/preview"
)

// Entry records one inspected piece of content.
type Entry struct {
	ContentHash string    `json:"content_hash"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Loaded      int       `json:"loaded"`
	SampleLen   int       `json:"sample_len"`
	NonText     int       `json:"non_text"`
	Threshold   int       `json:"threshold"`
	Binary      bool      `json:"binary"`
	Charset     string    `json:"charset,omitempty"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Kind returns "binary" or "text".
func (e Entry) Kind() string {
	if e.Binary {
		return "binary"
	}
	return "text"
}

// NewEntry builds an entry from a preview.
func NewEntry(p *preview.Preview, charset string, now time.Time) Entry {
	return Entry{
		ContentHash: ContentHash(p.Data),
		Path:        p.Path,
		Size:        p.Size,
		Loaded:      len(p.Data),
		SampleLen:   p.Class.SampleLen,
		NonText:     p.Class.NonText,
		Threshold:   p.Class.Threshold,
		Binary:      p.Class.Binary,
		Charset:     charset,
		Views:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
