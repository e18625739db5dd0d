// Package session provides options for the server-side conversation
// history store.
package session

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/mercora/volt/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options controls how conversation history is kept when a caller opts into
// server-side sessions instead of supplying history inline.
type Options struct {
	// Enabled turns the Redis-backed session store on. When disabled the
	// assistant only accepts caller-supplied history.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is how long an idle session survives before Redis expires it.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// MaxTurns caps the number of turns retained per session.
	MaxTurns int `json:"max-turns" mapstructure:"max-turns"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:  false,
		TTL:      30 * time.Minute,
		MaxTurns: 20,
	}
}

// AddFlags adds flags for session options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, options.Join(prefixes...)+"session.enabled", o.Enabled, "Enable the Redis-backed conversation session store.")
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"session.ttl", o.TTL, "Idle session expiry.")
	fs.IntVar(&o.MaxTurns, options.Join(prefixes...)+"session.max-turns", o.MaxTurns, "Maximum turns retained per session.")
}

// Validate validates the session options.
func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive"))
	}
	if o.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("session.max-turns must be positive"))
	}
	return errs
}
