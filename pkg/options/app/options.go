// Package app defines the options contract consumed by the application
// bootstrapper.
package app

import (
	"github.com/mercora/volt/pkg/app/cliflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// Flags returns flags organized into named groups.
	Flags() cliflag.NamedFlagSets

	// Complete fills in any fields not set that are required to have valid data.
	Complete() error

	// Validate validates all the required options.
	Validate() error
}
