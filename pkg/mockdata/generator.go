// Package mockdata generates synthetic transfer-log batches: a bulk of
// routine business-hours transfers plus a small set of outlier-profile
// records (dangerous extensions, large files, night-window timing). It is a
// stand-in for a real log producer and is not part of the detection core.
package mockdata

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/hed1ad/transferguard/pkg/transfer"
)

var normalExtensions = []string{".txt", ".xlsx", ".doc", ".xml", ".zip", ".png", ".pdf"}

var outlierExtensions = []string{".ps1", ".cmd", ".rar"}

// extDanger maps extension to risk score, 0 (safe) to 1 (most dangerous).
// Unknown extensions score 1.0.
var extDanger = map[string]float64{
	".txt":  0.05,
	".png":  0.05,
	".pdf":  0.20,
	".zip":  0.35,
	".xml":  0.40,
	".doc":  0.55,
	".xlsx": 0.55,
	".rar":  0.60,
	".cmd":  0.95,
	".ps1":  1.00,
}

// extToID is a stable extension-to-id mapping derived from the known sets.
// Unknown extensions map to 0.
var extToID = buildExtIDMap()

func buildExtIDMap() map[string]int {
	seen := make(map[string]bool)
	for _, ext := range normalExtensions {
		seen[normalizeExt(ext)] = true
	}
	for _, ext := range outlierExtensions {
		seen[normalizeExt(ext)] = true
	}
	for ext := range extDanger {
		seen[normalizeExt(ext)] = true
	}
	delete(seen, "")

	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	m := make(map[string]int, len(exts))
	for i, ext := range exts {
		m[ext] = i + 1
	}
	return m
}

func normalizeExt(ext string) string {
	key := strings.ToLower(strings.TrimSpace(ext))
	if key == "" {
		return ""
	}
	if !strings.HasPrefix(key, ".") {
		key = "." + key
	}
	return key
}

// ExtID returns the stable id for an extension, 0 for unknown.
func ExtID(ext string) int {
	return extToID[normalizeExt(ext)]
}

// DangerFor returns the risk score for an extension, clamped to [0, 1].
// Unknown extensions score 1.0.
func DangerFor(ext string) float64 {
	score, ok := extDanger[normalizeExt(ext)]
	if !ok {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// WorkWeightForHour maps an hour of day (0-23) to an activity weight (1-10):
// business hours are the busiest, small hours the quietest.
func WorkWeightForHour(hour int) int {
	switch {
	case hour >= 0 && hour < 4:
		return 1
	case hour >= 4 && hour < 6:
		return 2
	case hour >= 6 && hour < 8:
		return 5
	case hour >= 8 && hour < 17:
		return 10
	case hour >= 17 && hour < 21:
		return 6
	case hour >= 21 && hour < 24:
		return 3
	}
	return 1
}

// Record dates span April through December 2025.
var (
	dateStart = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	dateEnd   = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Generator produces synthetic transfer batches with a seeded rng for
// reproducibility.
type Generator struct {
	rng         *rand.Rand
	successRate float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSuccessRate sets the fraction of transfers marked successful.
func WithSuccessRate(rate float64) Option {
	return func(g *Generator) {
		g.successRate = rate
	}
}

// New creates a Generator with the given options.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:         rand.New(rand.NewSource(42)),
		successRate: 0.99,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Batch generates normalCount routine records and outlierCount outlier-profile
// records, keyed by unique opaque ids.
func (g *Generator) Batch(normalCount, outlierCount int) map[string]transfer.Record {
	data := make(map[string]transfer.Record, normalCount+outlierCount)

	for i := 0; i < normalCount; i++ {
		ext := normalExtensions[g.rng.Intn(len(normalExtensions))]
		fileLen := 1 + g.rng.Intn(25)

		start := g.businessHoursStart()
		finish := start.Add(time.Duration(1000+g.rng.Intn(119001)) * time.Millisecond)

		data[g.recordID(data)] = g.record(ext, fileLen, start, finish)
	}

	for i := 0; i < outlierCount; i++ {
		ext := outlierExtensions[g.rng.Intn(len(outlierExtensions))]
		fileLen := 30 + g.rng.Intn(31)

		start, finish := g.nightWindow()

		data[g.recordID(data)] = g.record(ext, fileLen, start, finish)
	}

	return data
}

func (g *Generator) record(ext string, fileLen int, start, finish time.Time) transfer.Record {
	startMS := start.UnixMilli()
	finishMS := finish.UnixMilli()

	success := 0
	if g.rng.Float64() < g.successRate {
		success = 1
	}

	hour := start.UTC().Hour()
	return transfer.Record{
		ExtID:            ExtID(ext),
		FileLen:          fileLen,
		ExtDanger:        DangerFor(ext),
		Success:          success,
		TransferStartMS:  startMS,
		TransferFinishMS: finishMS,
		TransferDeltaS:   float64(finishMS-startMS) / 1000,
		TransferHour:     hour,
		WorkWeight:       WorkWeightForHour(hour),
	}
}

func (g *Generator) recordID(existing map[string]transfer.Record) string {
	for {
		id := fmt.Sprintf("ID-%010d", g.rng.Int63n(10_000_000_000))
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}

func (g *Generator) randomDate(from, to time.Time) time.Time {
	spanDays := int(to.Sub(from).Hours() / 24)
	return from.AddDate(0, 0, g.rng.Intn(spanDays+1))
}

// businessHoursStart picks a start between 08:00:00.000 and 16:59:59.999 UTC
// on a random day.
func (g *Generator) businessHoursStart() time.Time {
	day := g.randomDate(dateStart, dateEnd)
	sec := 8*3600 + g.rng.Intn(9*3600)
	ms := g.rng.Intn(1000)
	return day.Add(time.Duration(sec)*time.Second + time.Duration(ms)*time.Millisecond)
}

// nightWindow picks a start/finish pair inside 23:00-24:00 or 00:00-04:00,
// with the duration capped so the transfer stays inside its segment.
func (g *Generator) nightWindow() (time.Time, time.Time) {
	var start, segEnd time.Time

	if g.rng.Intn(2) == 0 {
		day := g.randomDate(dateStart, dateEnd)
		segStart := day.Add(23 * time.Hour)
		segEnd = day.Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
		start = segStart.Add(time.Duration(g.rng.Intn(59*60+60))*time.Second +
			time.Duration(g.rng.Intn(1000))*time.Millisecond)
	} else {
		day := g.randomDate(dateStart.AddDate(0, 0, 1), dateEnd)
		segEnd = day.Add(3*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
		start = day.Add(time.Duration(g.rng.Intn(4*3600))*time.Second +
			time.Duration(g.rng.Intn(1000))*time.Millisecond)
	}

	maxDurationMS := int(segEnd.Sub(start).Milliseconds())
	if maxDurationMS < 1000 {
		maxDurationMS = 1000
	}
	if maxDurationMS > 120_000 {
		maxDurationMS = 120_000
	}
	durationMS := 1000 + g.rng.Intn(maxDurationMS-999)

	return start, start.Add(time.Duration(durationMS) * time.Millisecond)
}
