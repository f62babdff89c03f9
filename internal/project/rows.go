package project

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the naive creation-date format used for display and
// accepted from older tables.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// storedTimestampLayout carries the UTC offset so the hour repeated at a DST
// fall-back reads back unambiguously.
const storedTimestampLayout = "2006-01-02 15:04:05.000000-07:00"

var (
	cleanHeader = []string{"file", "encoding", "size", "duration", "creation date", "resolution", "processing time"}
	rawHeader   = []string{"file", "encoding", "size (MB)", "duration (mins)", "creation date", "resolution (h)", "processing time"}
)

// CleanRow is one human-formatted row of files.csv.
type CleanRow struct {
	File           string
	Encoding       string
	Size           string
	Duration       string
	Created        time.Time
	Resolution     string
	ProcessingTime float64
}

// RawRow is one full-precision row of files_raw.csv. The raw table is the
// source of truth for every recomputation.
type RawRow struct {
	File             string
	Encoding         string
	SizeMB           float64
	DurationMins     float64
	Created          time.Time
	ResolutionHeight int
	ProcessingTime   float64
}

// CleanHeader returns the column names of the clean table.
func CleanHeader() []string { return append([]string(nil), cleanHeader...) }

// RawHeader returns the column names of the raw table.
func RawHeader() []string { return append([]string(nil), rawHeader...) }

func (r CleanRow) record() []string {
	return []string{
		r.File,
		r.Encoding,
		r.Size,
		r.Duration,
		formatTimestamp(r.Created),
		r.Resolution,
		formatFloat(r.ProcessingTime),
	}
}

func (r RawRow) record() []string {
	return []string{
		r.File,
		r.Encoding,
		formatFloat(r.SizeMB),
		formatFloat(r.DurationMins),
		formatTimestamp(r.Created),
		strconv.Itoa(r.ResolutionHeight),
		formatFloat(r.ProcessingTime),
	}
}

func parseCleanRecord(record []string) (CleanRow, error) {
	if len(record) != len(cleanHeader) {
		return CleanRow{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(cleanHeader), len(record))
	}
	created, err := ParseTimestamp(record[4])
	if err != nil {
		return CleanRow{}, err
	}
	processing, err := parseField("processing time", record[6])
	if err != nil {
		return CleanRow{}, err
	}
	return CleanRow{
		File:           record[0],
		Encoding:       record[1],
		Size:           record[2],
		Duration:       record[3],
		Created:        created,
		Resolution:     record[5],
		ProcessingTime: processing,
	}, nil
}

func parseRawRecord(record []string) (RawRow, error) {
	if len(record) != len(rawHeader) {
		return RawRow{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(rawHeader), len(record))
	}
	row := RawRow{File: record[0], Encoding: record[1]}
	var err error
	if row.SizeMB, err = parseField("size (MB)", record[2]); err != nil {
		return RawRow{}, err
	}
	if row.DurationMins, err = parseField("duration (mins)", record[3]); err != nil {
		return RawRow{}, err
	}
	if row.Created, err = ParseTimestamp(record[4]); err != nil {
		return RawRow{}, err
	}
	height, err := parseField("resolution (h)", record[5])
	if err != nil {
		return RawRow{}, err
	}
	row.ResolutionHeight = int(height)
	if row.ProcessingTime, err = parseField("processing time", record[6]); err != nil {
		return RawRow{}, err
	}
	return row, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func parseField(name, value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, name, value)
	}
	return parsed, nil
}

func formatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(storedTimestampLayout)
}

// ParseTimestamp parses a creation date written by this package. Dates
// without an offset are read as local time. Fractional seconds are optional.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{storedTimestampLayout, "2006-01-02 15:04:05-07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(time.Local), nil
		}
	}
	for _, layout := range []string{TimestampLayout, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: creation date %q", ErrMalformedRow, value)
}
