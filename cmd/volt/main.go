// Package main is the entry point for the Volt shopping assistant.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/mercora/volt/cmd/volt/app"
)

func main() {
	app.NewApp().Run()
}
