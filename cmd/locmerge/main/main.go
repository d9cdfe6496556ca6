package main

import (
	"os"

	"github.com/citizenwiki/locmerge/cmd/locmerge"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/ui"
)

func main() {
	rootCmd := locmerge.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if r, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr); rerr == nil {
			_ = r.RenderError(err)
		}
		os.Exit(errors.ExitCode(err))
	}
}
