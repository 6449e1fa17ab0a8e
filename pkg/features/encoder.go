// Package features turns transfer records into distance-meaningful feature
// vectors and standardizes them for clustering.
package features

import (
	"math"
	"time"

	"github.com/hed1ad/transferguard/pkg/transfer"
)

// NumFeatures is the width of an encoded feature vector.
const NumFeatures = 5

// Encode converts a record to a feature vector.
// Features: [file_len, ext_danger, transfer_delta_s, hour_sin, hour_cos]
//
// The start hour of day is embedded on a circle via a sine/cosine pair so
// that 23:59 and 00:01 stay adjacent in feature space. ext_id is excluded
// (categorical, no distance ordering) and so are the raw timestamps (their
// Euclidean distance is meaningless at clustering scale; duration and
// time-of-day already carry the signal).
func Encode(r transfer.Record) []float64 {
	h := HourFraction(r.TransferStartMS)

	return []float64{
		float64(r.FileLen),
		r.ExtDanger,
		r.TransferDeltaS,
		math.Sin(2 * math.Pi * h / 24),
		math.Cos(2 * math.Pi * h / 24),
	}
}

// HourFraction converts epoch milliseconds (UTC) into a fractional hour of
// day in [0, 24). Example: 13.5 = 13:30 UTC.
func HourFraction(epochMS int64) float64 {
	t := time.UnixMilli(epochMS).UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// FeatureNames returns the names of the encoded features, in column order.
func FeatureNames() []string {
	return []string{
		"file_len",
		"ext_danger",
		"transfer_delta_s",
		"hour_sin",
		"hour_cos",
	}
}
