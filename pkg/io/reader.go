// Package io provides input/output utilities for transfer-log ingestion and
// result export.
package io

import (
	"github.com/hed1ad/transferguard/pkg/detectors"
	"github.com/hed1ad/transferguard/pkg/transfer"
)

// Reader is the interface for reading a transfer-log batch from a source.
type Reader interface {
	// Read returns the complete batch, keyed by record id.
	Read() (map[string]transfer.Record, error)

	// Close releases resources.
	Close() error
}

// Writer is the interface for writing detection results.
type Writer interface {
	// Write outputs one labeled record.
	Write(result Result) error

	// WriteAll outputs multiple results.
	WriteAll(results []Result) error

	// Close releases resources.
	Close() error
}

// Result pairs a record with its cluster assignment for export.
type Result struct {
	ID         string
	Record     transfer.Record
	Assignment detectors.Assignment
}
