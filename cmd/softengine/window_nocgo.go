//go:build !cgo

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newWindowCmd(*options) *cobra.Command {
	return &cobra.Command{
		Use:    "window [model]",
		Short:  "Show the model in a desktop window (needs cgo)",
		Hidden: true,
		RunE: func(*cobra.Command, []string) error {
			return errors.New("window: built without cgo")
		},
	}
}
