// Package report summarizes cluster assignments into an anomaly report.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/hed1ad/transferguard/pkg/detectors"
	"github.com/hed1ad/transferguard/pkg/features"
	"github.com/hed1ad/transferguard/pkg/transfer"
)

// Anomaly is a noise-labeled record with its original fields, kept intact for
// human inspection.
type Anomaly struct {
	ID     string
	Record transfer.Record
}

// Summary is the outcome of one detection run. Noise membership is the sole
// anomaly signal; no severity ranking is derived.
type Summary struct {
	// Total is the number of labeled records.
	Total int
	// ClusterCounts maps cluster id to member count. Noise is tracked
	// separately in NoiseCount.
	ClusterCounts map[int]int
	// NoiseCount is the number of noise-labeled records.
	NoiseCount int
	// Anomalies lists the noise-labeled records in the row order used for
	// clustering (ascending record id).
	Anomalies []Anomaly
}

// Build pairs each record with its assignment and produces the summary.
// ids gives the row order used during clustering; ids, records and
// assignments must agree in size.
func Build(ids []string, records map[string]transfer.Record, assignments []detectors.Assignment) (*Summary, error) {
	if len(ids) != len(assignments) {
		return nil, fmt.Errorf("got %d assignments for %d records", len(assignments), len(ids))
	}

	s := &Summary{
		Total:         len(ids),
		ClusterCounts: make(map[int]int),
	}

	for i, id := range ids {
		rec, ok := records[id]
		if !ok {
			return nil, fmt.Errorf("record %s not found in batch", id)
		}

		if cluster, member := assignments[i].Cluster(); member {
			s.ClusterCounts[cluster]++
			continue
		}

		s.NoiseCount++
		s.Anomalies = append(s.Anomalies, Anomaly{ID: id, Record: rec})
	}

	return s, nil
}

// Clusters returns the cluster ids in ascending order.
func (s *Summary) Clusters() []int {
	out := make([]int, 0, len(s.ClusterCounts))
	for id := range s.ClusterCounts {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Render writes a human-readable report: per-cluster counts followed by the
// anomalous records with their original fields.
func (s *Summary) Render(w io.Writer) error {
	fmt.Fprintf(w, "Records: %d\n\nCluster label counts:\n", s.Total)
	for _, id := range s.Clusters() {
		fmt.Fprintf(w, "  %d\t%d\n", id, s.ClusterCounts[id])
	}
	fmt.Fprintf(w, "  noise\t%d\n", s.NoiseCount)

	fmt.Fprintf(w, "\nDetected %d anomalous records (noise points).\n", s.NoiseCount)
	if len(s.Anomalies) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE_LEN\tEXT_DANGER\tDELTA_S\tSTART_HOUR")
	for _, a := range s.Anomalies {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.3f\t%.2f\n",
			a.ID, a.Record.FileLen, a.Record.ExtDanger, a.Record.TransferDeltaS,
			features.HourFraction(a.Record.TransferStartMS))
	}
	return tw.Flush()
}
