package probe

import (
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

// Metadata is the raw result of probing one file.
type Metadata struct {
	Path            string
	Encoding        string
	SizeBytes       int64
	DurationSeconds float64
	Width           int
	Height          int
	Created         time.Time
	Elapsed         time.Duration
}

// Raw projects the metadata onto a full-precision raw table row.
func (m Metadata) Raw(name string) project.RawRow {
	return project.RawRow{
		File:             name,
		Encoding:         m.Encoding,
		SizeMB:           units.MB(m.SizeBytes),
		DurationMins:     m.DurationSeconds / 60,
		Created:          m.Created,
		ResolutionHeight: m.Height,
		ProcessingTime:   m.Elapsed.Seconds(),
	}
}

// Clean projects the metadata onto a human-formatted clean table row.
func (m Metadata) Clean(name string) project.CleanRow {
	return project.CleanRow{
		File:           name,
		Encoding:       m.Encoding,
		Size:           units.Size(m.SizeBytes),
		Duration:       units.Duration(m.DurationSeconds),
		Created:        m.Created,
		Resolution:     units.Resolution(m.Width, m.Height),
		ProcessingTime: m.Elapsed.Seconds(),
	}
}
