package application

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var ErrNoResumeData = errors.New("no data rows to resume from")

// ResumeBounds is what a previous run's output implies for the next one:
// exactly one time bound is set, opposite to the direction the prior run
// walked, and Rows seeds the next sequence number.
type ResumeBounds struct {
	BeginTime time.Time
	EndTime   time.Time
	Rows      int64
}

// InferResumeBounds reads an existing output CSV's first and last data rows
// and compares their creation timestamps to infer whether the prior run was
// ascending or descending. An ascending run sets BeginTime, a descending one
// EndTime, so the next run continues without reprocessing.
func InferResumeBounds(path string) (ResumeBounds, error) {
	file, err := os.Open(path)
	if err != nil {
		return ResumeBounds{}, fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return ResumeBounds{}, fmt.Errorf("read header row: %w", err)
	}

	createdAtIdx, err := columnIndex(header, "created_at")
	if err != nil {
		return ResumeBounds{}, err
	}
	rowIdx, err := columnIndex(header, "row")
	if err != nil {
		return ResumeBounds{}, err
	}

	var first, last []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ResumeBounds{}, fmt.Errorf("read data row: %w", err)
		}
		if first == nil {
			first = record
		}
		last = record
	}
	if first == nil {
		return ResumeBounds{}, ErrNoResumeData
	}

	firstCreated, err := parseEpochField(first[createdAtIdx])
	if err != nil {
		return ResumeBounds{}, fmt.Errorf("parse first row created_at: %w", err)
	}
	lastCreated, err := parseEpochField(last[createdAtIdx])
	if err != nil {
		return ResumeBounds{}, fmt.Errorf("parse last row created_at: %w", err)
	}
	rows, err := strconv.ParseInt(last[rowIdx], 10, 64)
	if err != nil {
		return ResumeBounds{}, fmt.Errorf("parse last row sequence: %w", err)
	}

	bounds := ResumeBounds{Rows: rows}
	if firstCreated.After(lastCreated) {
		// Prior run walked descending; resume below the oldest seen record.
		bounds.EndTime = lastCreated
	} else {
		bounds.BeginTime = lastCreated
	}

	return bounds, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, column := range header {
		if column == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("output file has no %q column", name)
}

func parseEpochField(raw string) (time.Time, error) {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(int64(seconds), 0).UTC(), nil
}
