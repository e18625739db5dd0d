// Package assistant provides configuration options for the Volt shopping
// assistant pipeline.
package assistant

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/mercora/volt/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains assistant pipeline configuration.
type Options struct {
	// Collection is the name of the Milvus collection holding product vectors.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// TopK is the number of candidates to retrieve from similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// HistoryTurns is the number of most recent conversation turns forwarded
	// to the generator.
	HistoryTurns int `json:"history-turns" mapstructure:"history-turns"`

	// ContextBudget is the character ceiling on the assembled context payload.
	ContextBudget int `json:"context-budget" mapstructure:"context-budget"`

	// RetrievalTimeout bounds the embedding and vector search calls, each.
	RetrievalTimeout time.Duration `json:"retrieval-timeout" mapstructure:"retrieval-timeout"`

	// GenerationTimeout bounds the answer generation call.
	GenerationTimeout time.Duration `json:"generation-timeout" mapstructure:"generation-timeout"`

	// Temperature for answer generation. Kept low for consistency.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens is the generation token budget.
	MaxTokens int `json:"max-tokens" mapstructure:"max-tokens"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Collection:        "volt_products",
		EmbeddingDim:      768,
		TopK:              7,
		HistoryTurns:      6,
		ContextBudget:     4000,
		RetrievalTimeout:  10 * time.Second,
		GenerationTimeout: 30 * time.Second,
		Temperature:       0.1,
		MaxTokens:         1024,
	}
}

// AddFlags adds flags for assistant options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"assistant.collection", o.Collection, "Milvus collection holding product vectors.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"assistant.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"assistant.top-k", o.TopK, "Number of candidates retrieved per question.")
	fs.IntVar(&o.HistoryTurns, options.Join(prefixes...)+"assistant.history-turns", o.HistoryTurns, "Recent conversation turns forwarded to the generator.")
	fs.IntVar(&o.ContextBudget, options.Join(prefixes...)+"assistant.context-budget", o.ContextBudget, "Character ceiling on the assembled context payload.")
	fs.DurationVar(&o.RetrievalTimeout, options.Join(prefixes...)+"assistant.retrieval-timeout", o.RetrievalTimeout, "Timeout for embedding and vector search calls.")
	fs.DurationVar(&o.GenerationTimeout, options.Join(prefixes...)+"assistant.generation-timeout", o.GenerationTimeout, "Timeout for answer generation.")
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"assistant.temperature", o.Temperature, "Generation temperature.")
	fs.IntVar(&o.MaxTokens, options.Join(prefixes...)+"assistant.max-tokens", o.MaxTokens, "Generation token budget.")
}

// Validate validates the assistant options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("collection is required"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("embedding-dim must be positive"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top-k must be positive"))
	}
	if o.HistoryTurns <= 0 {
		errs = append(errs, fmt.Errorf("history-turns must be positive"))
	}
	if o.ContextBudget <= 0 {
		errs = append(errs, fmt.Errorf("context-budget must be positive"))
	}
	if o.RetrievalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("retrieval-timeout must be positive"))
	}
	if o.GenerationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("generation-timeout must be positive"))
	}
	return errs
}

// Complete completes the assistant options with defaults.
func (o *Options) Complete() error {
	if o.Temperature < 0 {
		o.Temperature = 0
	}
	return nil
}
