package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *AssistantMetrics {
	m := GetAssistantMetrics()
	m.Reset()
	return m
}

func TestGetAssistantMetrics(t *testing.T) {
	m1 := GetAssistantMetrics()
	m2 := GetAssistantMetrics()
	assert.Same(t, m1, m2)
}

func TestRecordCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordQuestion()
	m.RecordQuestion()
	m.RecordEasterEgg()
	m.RecordRetrievalFailure()
	m.RecordGenerationFallback()
	m.RecordGroundingViolations(3)
	m.RecordGroundingViolations(0)
	m.RecordRecommendation()
	m.RecordIndexed(42)
	m.RecordIndexed(-1)

	snap := m.GetSnapshot()
	assert.Equal(t, uint64(2), snap.QuestionsTotal)
	assert.Equal(t, uint64(1), snap.EasterEggHits)
	assert.Equal(t, uint64(1), snap.RetrievalFailures)
	assert.Equal(t, uint64(1), snap.GenerationFallbacks)
	assert.Equal(t, uint64(3), snap.GroundingViolations)
	assert.Equal(t, uint64(1), snap.RecommendationsTotal)
	assert.Equal(t, uint64(42), snap.ProductsIndexed)
}

func TestConcurrentRecording(t *testing.T) {
	m := newTestMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordQuestion()
				m.RecordGroundingViolations(1)
			}
		}()
	}
	wg.Wait()

	snap := m.GetSnapshot()
	assert.Equal(t, uint64(1000), snap.QuestionsTotal)
	assert.Equal(t, uint64(1000), snap.GroundingViolations)
}

func TestConcurrentResetAndSnapshot(t *testing.T) {
	m := newTestMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Reset()
				snap := m.GetSnapshot()
				assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
			}
		}()
	}
	wg.Wait()
}

func TestExport(t *testing.T) {
	m := newTestMetrics()
	m.RecordQuestion()
	m.RecordGenerationFallback()

	out := m.Export("volt", "assistant")
	assert.Contains(t, out, "# TYPE volt_assistant_questions_total counter")
	assert.Contains(t, out, "volt_assistant_questions_total 1")
	assert.Contains(t, out, "volt_assistant_generation_fallbacks_total 1")
	assert.Contains(t, out, "volt_assistant_uptime_seconds")

	// no subsystem
	out = m.Export("volt", "")
	assert.True(t, strings.Contains(out, "volt_questions_total 1"))
}
