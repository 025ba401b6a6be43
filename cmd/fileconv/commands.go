package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	fileconv "github.com/nicholasgasior/fileconv-go"
)

var (
	convertTarget string
	convertOutput string
	previewRows   int
)

var targetsCmd = &cobra.Command{
	Use:   "targets [extension]",
	Short: "List the output formats allowed for an extension",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, ext := range fileconv.SupportedExtensions() {
				fmt.Printf("%-6s %s\n", ext, strings.Join(fileconv.AllowedTargets(ext), ", "))
			}
			return nil
		}
		targets := fileconv.AllowedTargets(args[0])
		if len(targets) == 0 {
			return fmt.Errorf("no conversions available for %q", args[0])
		}
		fmt.Println(strings.Join(targets, "\n"))
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Validate a file and print its analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			up, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			if up.Descriptor.MIMEMismatch {
				warn("content looks like %s, not %s", up.Descriptor.SniffedMIME, up.Descriptor.DeclaredExtension)
			}
			out, err := json.MarshalIndent(up.Analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		})
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Print a Markdown preview of a file's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			up, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			md, err := a.engine.Preview(up.Content, previewRows)
			if err != nil {
				return err
			}
			fmt.Println(md)
			return nil
		})
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a file to another format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			up, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			target := convertTarget
			if target == "" {
				if len(up.Analysis.Recommended) == 0 {
					return fmt.Errorf("no target given and none recommended for %s", up.Descriptor.DeclaredExtension)
				}
				target = up.Analysis.Recommended[0]
				info("no target given, using recommended %s", target)
			}

			var bar *progressbar.ProgressBar
			art, err := a.session.Convert(ctx, target, fileconv.WithProgress(func(done, total int) {
				if bar == nil {
					bar = newProgressBar(total, "rendering")
				}
				_ = bar.Set(done)
			}))
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return describe(err)
			}

			path := convertOutput
			if path == "" {
				path = filepath.Join(filepath.Dir(args[0]), art.Filename)
			}
			if err := os.WriteFile(path, art.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			success("%s → %s (%s, %s)", up.Descriptor.Name, path, art.MIMEType, fileconv.FormatSize(int64(len(art.Data))))
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage counters for the configured user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			s := a.session.Stats()
			bold := color.New(color.Bold).SprintFunc()
			fmt.Printf("%s %s\n", bold("user:"), a.cfg.User)
			fmt.Printf("%s %d\n", bold("files processed:"), s.FilesProcessed)
			fmt.Printf("%s %d\n", bold("conversions:"), s.ConversionsPerformed)
			fmt.Printf("%s %d\n", bold("messages:"), s.MessagesExchanged)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fileconv %s\n", version)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertTarget, "to", "t", "", "target format (default: first recommended)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output path (default: next to the input)")
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", fileconv.DefaultPreviewRows, "maximum table rows to show")
}
