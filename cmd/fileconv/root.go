// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	fileconv "github.com/nicholasgasior/fileconv-go"
	"github.com/nicholasgasior/fileconv-go/internal/config"
	"github.com/nicholasgasior/fileconv-go/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	noColor  bool
	mimeHint string
)

var rootCmd = &cobra.Command{
	Use:   "fileconv",
	Short: "Convert office documents, PDFs, text and images between formats",
	Long: `fileconv validates an input file, extracts its content, and converts it to
one of the formats its extension allows (pdf, csv, txt, html, json, xml, xlsx,
docx, rtf, page images, or another raster format for images).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&mimeHint, "mime-type", "m", "", "declared MIME type of the input")

	rootCmd.AddCommand(targetsCmd, analyzeCmd, previewCmd, convertCmd, statsCmd, versionCmd)
}

// app bundles what every command needs: a configured engine and one session.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	engine  *fileconv.Engine
	session *fileconv.Session
	closer  io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Format: cfg.Log.Format})

	a := &app{cfg: cfg, logger: logger}
	opts := []fileconv.Option{fileconv.WithLogger(logger)}
	if cfg.Stats.Backend == config.BackendRedis {
		store, err := fileconv.NewRedisStore(ctx, fileconv.RedisConfig{
			Addr:     cfg.Stats.Redis.Addr,
			Password: cfg.Stats.Redis.Password,
			DB:       cfg.Stats.Redis.DB,
			Prefix:   cfg.Stats.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileconv.WithStatsStore(store))
		a.closer = store
	}
	a.engine = fileconv.New(opts...)
	a.session = a.engine.NewSession(ctx, cfg.User)
	return a, nil
}

func (a *app) Close() {
	a.session.Close()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("stats store close failed")
		}
	}
}

// load reads path and submits it to the session.
func (a *app) load(ctx context.Context, path string) (*fileconv.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	up, err := a.session.Submit(ctx, data, filepath.Base(path), mimeHint)
	if err != nil {
		return nil, describe(err)
	}
	return up, nil
}

// describe turns a typed engine error into a one-line message.
func describe(err error) error {
	kind := fileconv.KindOf(err)
	if kind == "" {
		return err
	}
	return fmt.Errorf("%s: %s", kind, fileconv.DetailOf(err))
}

// withApp runs fn with a ready app and closes it afterwards. Display handles
// are swept every cfg.SweepInterval while fn runs.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.session.RunSweeper(sweepCtx, a.cfg.SweepInterval)

	return fn(ctx, a)
}
