// Package transfer defines the file-transfer log record model.
package transfer

import "fmt"

// DeltaTolerance is the maximum allowed disagreement, in seconds, between
// transfer_delta_s and the duration derived from the start/finish timestamps.
const DeltaTolerance = 1e-6

// Record is one completed file-transfer event. Records are immutable inputs
// keyed by an opaque id string; the pipeline never modifies them.
type Record struct {
	// ExtID is a stable identifier of the file extension, 0 for unknown.
	ExtID int `json:"ext_id"`
	// FileLen is the file size in domain units (e.g. MB).
	FileLen int `json:"file_len"`
	// ExtDanger is the precomputed extension risk score in [0, 1].
	ExtDanger float64 `json:"ext_danger"`
	// Success is 1 for a completed transfer, 0 for a failed one.
	Success int `json:"success"`
	// TransferStartMS and TransferFinishMS are Unix epoch milliseconds (UTC).
	TransferStartMS  int64 `json:"transfer_start_ms"`
	TransferFinishMS int64 `json:"transfer_finish_ms"`
	// TransferDeltaS is (finish - start) / 1000 in seconds.
	TransferDeltaS float64 `json:"transfer_delta_s"`

	// Optional enrichment fields; not inputs to clustering.
	TransferHour int `json:"transfer_hour"`
	WorkWeight   int `json:"work_weight"`
}

// SchemaError reports a record that violates the input schema: a missing
// required field or a field outside its declared range.
type SchemaError struct {
	ID     string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %s: field %s: %s", e.ID, e.Field, e.Reason)
}

// Validate checks the range invariants of a record. The id is only used to
// contextualize the returned SchemaError.
func Validate(id string, r Record) error {
	if r.ExtDanger < 0 || r.ExtDanger > 1 {
		return &SchemaError{ID: id, Field: "ext_danger", Reason: fmt.Sprintf("value %v outside [0, 1]", r.ExtDanger)}
	}
	if r.Success != 0 && r.Success != 1 {
		return &SchemaError{ID: id, Field: "success", Reason: fmt.Sprintf("value %d not in {0, 1}", r.Success)}
	}
	if r.TransferFinishMS < r.TransferStartMS {
		return &SchemaError{ID: id, Field: "transfer_finish_ms", Reason: "finish precedes start"}
	}

	derived := float64(r.TransferFinishMS-r.TransferStartMS) / 1000
	diff := r.TransferDeltaS - derived
	if diff < -DeltaTolerance || diff > DeltaTolerance {
		return &SchemaError{
			ID:     id,
			Field:  "transfer_delta_s",
			Reason: fmt.Sprintf("value %v disagrees with derived duration %v", r.TransferDeltaS, derived),
		}
	}

	return nil
}
