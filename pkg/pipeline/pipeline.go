// Package pipeline runs the end-to-end anomaly detection flow: validate,
// encode, scale, cluster, report.
package pipeline

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hed1ad/transferguard/pkg/detectors"
	"github.com/hed1ad/transferguard/pkg/detectors/dbscan"
	"github.com/hed1ad/transferguard/pkg/features"
	"github.com/hed1ad/transferguard/pkg/report"
	"github.com/hed1ad/transferguard/pkg/transfer"
)

// Pipeline is a reusable configuration for batch detection runs. Each Run
// owns its own matrices and assignment arrays, so a single Pipeline is safe
// for concurrent and repeated use.
type Pipeline struct {
	eps        float64
	minSamples int
	lenient    bool
	workers    int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEps sets the DBSCAN neighborhood radius.
func WithEps(eps float64) Option {
	return func(p *Pipeline) {
		p.eps = eps
	}
}

// WithMinSamples sets the DBSCAN core-point threshold.
func WithMinSamples(n int) Option {
	return func(p *Pipeline) {
		p.minSamples = n
	}
}

// WithLenient makes schema violations exclude the offending record instead of
// failing the run. Excluded records are reported on the Result, never dropped
// silently.
func WithLenient(lenient bool) Option {
	return func(p *Pipeline) {
		p.lenient = lenient
	}
}

// WithWorkers sets the number of goroutines used for feature encoding.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New creates a Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	cfg := detectors.DefaultConfig()

	p := &Pipeline{
		eps:        cfg.Eps,
		minSamples: cfg.MinSamples,
		workers:    runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Rejected is a record excluded in lenient mode, with the reason.
type Rejected struct {
	ID     string
	Record transfer.Record
	Reason error
}

// Result is the outcome of one pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and exports.
	RunID string
	// IDs is the deterministic row order used for clustering.
	IDs []string
	// Assignments maps each record id to its cluster assignment.
	Assignments map[string]detectors.Assignment
	// Summary is the anomaly report.
	Summary *report.Summary
	// RejectedRecords lists records excluded in lenient mode.
	RejectedRecords []Rejected
}

// Run executes one detection pass over the batch. The input map is never
// mutated. An empty batch yields an empty Result without fitting the scaler.
func (p *Pipeline) Run(ctx context.Context, batch map[string]transfer.Record) (*Result, error) {
	result := &Result{
		RunID:       uuid.NewString(),
		Assignments: make(map[string]detectors.Assignment),
	}

	// Fixed ascending-id row order keeps clustering reproducible across runs
	// on identical input.
	ids := make([]string, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := transfer.Validate(id, batch[id]); err != nil {
			if !p.lenient {
				return nil, err
			}
			result.RejectedRecords = append(result.RejectedRecords, Rejected{
				ID:     id,
				Record: batch[id],
				Reason: err,
			})
			continue
		}
		kept = append(kept, id)
	}
	result.IDs = kept

	if len(kept) == 0 {
		result.Summary = &report.Summary{ClusterCounts: make(map[int]int)}
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix := p.encode(kept, batch)

	// Whole-batch barrier: scaling needs every row before any value can be
	// standardized.
	scaler := features.NewStandardScaler()
	scaled, err := scaler.FitTransform(matrix)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusterer := dbscan.New(
		dbscan.WithEps(p.eps),
		dbscan.WithMinSamples(p.minSamples),
	)
	assignments, err := clusterer.Cluster(scaled)
	if err != nil {
		return nil, err
	}

	for i, id := range kept {
		result.Assignments[id] = assignments[i]
	}

	summary, err := report.Build(kept, batch, assignments)
	if err != nil {
		return nil, err
	}
	result.Summary = summary

	return result, nil
}

// encode builds the feature matrix, fanning rows out across workers. Each
// goroutine writes disjoint rows, so no locking is needed; the WaitGroup is
// the barrier before scaling.
func (p *Pipeline) encode(ids []string, batch map[string]transfer.Record) [][]float64 {
	matrix := make([][]float64, len(ids))

	workers := p.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < len(ids); i += workers {
				matrix[i] = features.Encode(batch[ids[i]])
			}
		}(w)
	}
	wg.Wait()

	return matrix
}
