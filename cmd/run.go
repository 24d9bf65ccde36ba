package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CuriousNebula/Math-Master/internal/app"
	"github.com/CuriousNebula/Math-Master/internal/screen"
)

// runApp builds dependencies and launches the TUI, optionally on a
// screen other than home.
func runApp(cmd *cobra.Command, initial func(screen.Services) screen.Screen) error {
	d, err := buildDeps(cmd, logToFile)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{Services: d.services()}
	if initial != nil {
		opts.Initial = initial(opts.Services)
	}
	return app.Run(cmd.Context(), opts)
}
