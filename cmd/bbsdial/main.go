// Package main is the entry point for the bbsdial CLI.
package main

import (
	"os"

	"github.com/bbsdial/bbsdial/cmd/bbsdial/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
