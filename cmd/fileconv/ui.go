package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}

func success(format string, args ...any) {
	fmt.Fprintln(os.Stdout, color.GreenString("✓ "+format, args...))
}

func warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("⚠ "+format, args...))
}

func info(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.CyanString("ℹ "+format, args...))
}
