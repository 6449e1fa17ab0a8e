// Package jsonlog reads transfer-log batches from JSON files whose top-level
// structure is an object of record-id to record objects.
package jsonlog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hed1ad/transferguard/pkg/transfer"
)

// Reader reads a transfer-log batch from a JSON file.
type Reader struct {
	file *os.File
}

// NewReader opens a JSON transfer log.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return &Reader{file: file}, nil
}

// rawRecord mirrors transfer.Record with pointers for the required fields so
// absent keys can be told apart from zero values.
type rawRecord struct {
	ExtID            *int     `json:"ext_id"`
	FileLen          *int     `json:"file_len"`
	ExtDanger        *float64 `json:"ext_danger"`
	Success          *int     `json:"success"`
	TransferStartMS  *int64   `json:"transfer_start_ms"`
	TransferFinishMS *int64   `json:"transfer_finish_ms"`
	TransferDeltaS   *float64 `json:"transfer_delta_s"`
	TransferHour     int      `json:"transfer_hour"`
	WorkWeight       int      `json:"work_weight"`
}

// Read parses the whole file into a batch keyed by record id. A record
// missing one of the required fields yields a SchemaError naming the record
// and the field; range validation is left to the pipeline.
func (r *Reader) Read() (map[string]transfer.Record, error) {
	var raw map[string]rawRecord
	dec := json.NewDecoder(r.file)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transfer log: %w", err)
	}

	batch := make(map[string]transfer.Record, len(raw))
	for id, rr := range raw {
		rec, err := rr.toRecord(id)
		if err != nil {
			return nil, err
		}
		batch[id] = rec
	}

	return batch, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func (rr rawRecord) toRecord(id string) (transfer.Record, error) {
	missing := func(field string) (transfer.Record, error) {
		return transfer.Record{}, &transfer.SchemaError{ID: id, Field: field, Reason: "missing required field"}
	}

	switch {
	case rr.FileLen == nil:
		return missing("file_len")
	case rr.ExtDanger == nil:
		return missing("ext_danger")
	case rr.TransferStartMS == nil:
		return missing("transfer_start_ms")
	case rr.TransferFinishMS == nil:
		return missing("transfer_finish_ms")
	case rr.TransferDeltaS == nil:
		return missing("transfer_delta_s")
	}

	rec := transfer.Record{
		FileLen:          *rr.FileLen,
		ExtDanger:        *rr.ExtDanger,
		TransferStartMS:  *rr.TransferStartMS,
		TransferFinishMS: *rr.TransferFinishMS,
		TransferDeltaS:   *rr.TransferDeltaS,
		TransferHour:     rr.TransferHour,
		WorkWeight:       rr.WorkWeight,
	}
	if rr.ExtID != nil {
		rec.ExtID = *rr.ExtID
	}
	if rr.Success != nil {
		rec.Success = *rr.Success
	}

	return rec, nil
}
