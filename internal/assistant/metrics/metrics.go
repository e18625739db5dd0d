// Package metrics collects assistant pipeline counters.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// AssistantMetrics tracks the pipeline's business counters. All
// counters are atomic; the struct is safe for concurrent use.
type AssistantMetrics struct {
	questionsTotal       uint64
	easterEggHits        uint64
	retrievalFailures    uint64
	generationFallbacks  uint64
	groundingViolations  uint64
	recommendationsTotal uint64
	productsIndexed      uint64

	startNanos int64
}

var (
	globalMetrics *AssistantMetrics
	metricsOnce   sync.Once
)

// GetAssistantMetrics returns the process-wide metrics instance.
func GetAssistantMetrics() *AssistantMetrics {
	metricsOnce.Do(func() {
		globalMetrics = &AssistantMetrics{startNanos: time.Now().UnixNano()}
	})
	return globalMetrics
}

// Reset zeroes all counters. Intended for tests.
func (m *AssistantMetrics) Reset() {
	atomic.StoreUint64(&m.questionsTotal, 0)
	atomic.StoreUint64(&m.easterEggHits, 0)
	atomic.StoreUint64(&m.retrievalFailures, 0)
	atomic.StoreUint64(&m.generationFallbacks, 0)
	atomic.StoreUint64(&m.groundingViolations, 0)
	atomic.StoreUint64(&m.recommendationsTotal, 0)
	atomic.StoreUint64(&m.productsIndexed, 0)
	atomic.StoreInt64(&m.startNanos, time.Now().UnixNano())
}

// RecordQuestion records one inbound chat question.
func (m *AssistantMetrics) RecordQuestion() {
	atomic.AddUint64(&m.questionsTotal, 1)
}

// RecordEasterEgg records a short-circuited easter-egg answer.
func (m *AssistantMetrics) RecordEasterEgg() {
	atomic.AddUint64(&m.easterEggHits, 1)
}

// RecordRetrievalFailure records an embed/index failure that degraded
// to an empty context.
func (m *AssistantMetrics) RecordRetrievalFailure() {
	atomic.AddUint64(&m.retrievalFailures, 1)
}

// RecordGenerationFallback records a model failure that degraded to the
// apology answer.
func (m *AssistantMetrics) RecordGenerationFallback() {
	atomic.AddUint64(&m.generationFallbacks, 1)
}

// RecordGroundingViolations records product ids filtered by the
// grounding policy.
func (m *AssistantMetrics) RecordGroundingViolations(n int) {
	if n > 0 {
		atomic.AddUint64(&m.groundingViolations, uint64(n))
	}
}

// RecordRecommendation records one recommendation request.
func (m *AssistantMetrics) RecordRecommendation() {
	atomic.AddUint64(&m.recommendationsTotal, 1)
}

// RecordIndexed records products written to the vector index.
func (m *AssistantMetrics) RecordIndexed(n int) {
	if n > 0 {
		atomic.AddUint64(&m.productsIndexed, uint64(n))
	}
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	QuestionsTotal       uint64  `json:"questionsTotal"`
	EasterEggHits        uint64  `json:"easterEggHits"`
	RetrievalFailures    uint64  `json:"retrievalFailures"`
	GenerationFallbacks  uint64  `json:"generationFallbacks"`
	GroundingViolations  uint64  `json:"groundingViolations"`
	RecommendationsTotal uint64  `json:"recommendationsTotal"`
	ProductsIndexed      uint64  `json:"productsIndexed"`
	UptimeSeconds        float64 `json:"uptimeSeconds"`
}

// GetSnapshot returns a consistent-enough copy for reporting.
func (m *AssistantMetrics) GetSnapshot() Snapshot {
	return Snapshot{
		QuestionsTotal:       atomic.LoadUint64(&m.questionsTotal),
		EasterEggHits:        atomic.LoadUint64(&m.easterEggHits),
		RetrievalFailures:    atomic.LoadUint64(&m.retrievalFailures),
		GenerationFallbacks:  atomic.LoadUint64(&m.generationFallbacks),
		GroundingViolations:  atomic.LoadUint64(&m.groundingViolations),
		RecommendationsTotal: atomic.LoadUint64(&m.recommendationsTotal),
		ProductsIndexed:      atomic.LoadUint64(&m.productsIndexed),
		UptimeSeconds:        time.Since(time.Unix(0, atomic.LoadInt64(&m.startNanos))).Seconds(),
	}
}

// Export renders the counters in Prometheus text exposition format.
func (m *AssistantMetrics) Export(namespace, subsystem string) string {
	prefix := namespace
	if subsystem != "" {
		prefix = prefix + "_" + subsystem
	}
	snap := m.GetSnapshot()

	var sb strings.Builder
	writeCounter := func(name, help string, value uint64) {
		fmt.Fprintf(&sb, "# HELP %s_%s %s\n", prefix, name, help)
		fmt.Fprintf(&sb, "# TYPE %s_%s counter\n", prefix, name)
		fmt.Fprintf(&sb, "%s_%s %d\n\n", prefix, name, value)
	}

	writeCounter("questions_total", "Total chat questions received.", snap.QuestionsTotal)
	writeCounter("easter_egg_hits_total", "Questions answered by the recipe short circuit.", snap.EasterEggHits)
	writeCounter("retrieval_failures_total", "Retrievals degraded to an empty context.", snap.RetrievalFailures)
	writeCounter("generation_fallbacks_total", "Answers replaced by the fallback text.", snap.GenerationFallbacks)
	writeCounter("grounding_violations_total", "Product ids filtered by the grounding policy.", snap.GroundingViolations)
	writeCounter("recommendations_total", "Recommendation requests served.", snap.RecommendationsTotal)
	writeCounter("products_indexed_total", "Products written to the vector index.", snap.ProductsIndexed)

	fmt.Fprintf(&sb, "# HELP %s_uptime_seconds Process uptime.\n", prefix)
	fmt.Fprintf(&sb, "# TYPE %s_uptime_seconds gauge\n", prefix)
	fmt.Fprintf(&sb, "%s_uptime_seconds %.2f\n", prefix, snap.UptimeSeconds)

	return sb.String()
}
