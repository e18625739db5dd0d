// Package options contains flags and options for initializing the assistant server.
package options

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	assistantsvc "github.com/mercora/volt/internal/assistant"
	cliflag "github.com/mercora/volt/pkg/app/cliflag"
	"github.com/mercora/volt/pkg/component/mysql"
	"github.com/mercora/volt/pkg/component/redis"
	assistantopts "github.com/mercora/volt/pkg/options/assistant"
	llmopts "github.com/mercora/volt/pkg/options/llm"
	logopts "github.com/mercora/volt/pkg/options/logger"
	milvusopts "github.com/mercora/volt/pkg/options/milvus"
	httpopts "github.com/mercora/volt/pkg/options/server/http"
	sessionopts "github.com/mercora/volt/pkg/options/session"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus database configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// MySQLOptions contains the catalog database configuration.
	MySQLOptions *mysql.Options `json:"mysql" mapstructure:"mysql"`

	// RedisOptions contains the session store configuration.
	RedisOptions *redis.Options `json:"redis" mapstructure:"redis"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains chat provider configuration.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// AssistantOptions contains pipeline configuration.
	AssistantOptions *assistantopts.Options `json:"assistant" mapstructure:"assistant"`

	// SessionOptions contains server-side history configuration.
	SessionOptions *sessionopts.Options `json:"session" mapstructure:"session"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:      httpopts.NewOptions(),
		LogOptions:       logopts.NewOptions(),
		MilvusOptions:    milvusopts.NewOptions(),
		MySQLOptions:     mysql.NewOptions(),
		RedisOptions:     redis.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		ChatOptions:      llmopts.NewChatOptions(),
		AssistantOptions: assistantopts.NewOptions(),
		SessionOptions:   sessionopts.NewOptions(),
		ShutdownTimeout:  30 * time.Second,
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.MilvusOptions.AddFlags(fss.FlagSet("milvus"))
	o.MySQLOptions.AddFlags(fss.FlagSet("mysql"), "mysql.")
	o.RedisOptions.AddFlags(fss.FlagSet("redis"), "redis.")
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"), "embedding")
	o.ChatOptions.AddFlags(fss.FlagSet("chat"), "chat")
	o.AssistantOptions.AddFlags(fss.FlagSet("assistant"))
	o.SessionOptions.AddFlags(fss.FlagSet("session"))

	// misc flags
	fs := fss.FlagSet("misc")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")

	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return err
	}
	if err := o.MySQLOptions.Complete(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	if err := o.RedisOptions.Complete(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := o.EmbeddingOptions.Complete(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := o.ChatOptions.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := o.AssistantOptions.Complete(); err != nil {
		return fmt.Errorf("assistant: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.MilvusOptions.Validate()...)
	if err := o.MySQLOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.SessionOptions.Enabled {
		if err := o.RedisOptions.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.AssistantOptions.Validate()...)
	errs = append(errs, o.SessionOptions.Validate()...)

	return utilerrors.NewAggregate(errs)
}

// Config builds an assistantsvc.Config based on ServerOptions.
func (o *ServerOptions) Config() (*assistantsvc.Config, error) {
	return &assistantsvc.Config{
		HTTPOptions:      o.HTTPOptions,
		LogOptions:       o.LogOptions,
		MilvusOptions:    o.MilvusOptions,
		MySQLOptions:     o.MySQLOptions,
		RedisOptions:     o.RedisOptions,
		EmbeddingOptions: o.EmbeddingOptions,
		ChatOptions:      o.ChatOptions,
		AssistantOptions: o.AssistantOptions,
		SessionOptions:   o.SessionOptions,
		ShutdownTimeout:  o.ShutdownTimeout,
	}, nil
}
