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

// Package fileconv validates uploaded files, extracts their content into a
// small set of content models, and converts those models into downloadable
// formats such as PDF, CSV, XLSX, DOCX and raster images.
//
// Basic usage:
//
//	engine := fileconv.New()
//	session := engine.NewSession(ctx, "alice")
//	up, err := session.Submit(ctx, data, "report.xlsx", "")
//	art, err := session.Convert(ctx, "pdf")
package fileconv

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ConversionRequest asks for one extracted model to be converted to Target.
type ConversionRequest struct {
	Content         ContentModel
	SourceExtension string
	Target          string
	// BaseName names the output; empty means "converted".
	BaseName string
	// SourceSize is the original upload size in bytes.
	SourceSize int64
}

// Engine is the stateless conversion pipeline. It is safe for concurrent use.
type Engine struct {
	logger     zerolog.Logger
	store      StatsStore
	now        func() time.Time
	extractors map[Category]Extractor
	converters map[string]TargetConverter
}

// New creates an Engine with the built-in extractors and converters.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:     zerolog.Nop(),
		now:        time.Now,
		extractors: make(map[Category]Extractor),
		converters: make(map[string]TargetConverter),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = NewMemoryStore()
	}
	e.enableBuiltins()
	return e
}

// RegisterExtractor sets the extractor for a category, replacing any
// existing one.
func (e *Engine) RegisterExtractor(cat Category, x Extractor) {
	e.extractors[cat] = x
}

// RegisterConverter sets the converter for a target format, replacing any
// existing one.
func (e *Engine) RegisterConverter(target string, c TargetConverter) {
	e.converters[NormalizeExtension(target)] = c
}

// Validate checks an upload descriptor and returns its category.
func (e *Engine) Validate(desc *InputDescriptor) (Category, error) {
	cat, err := Validate(desc)
	if err != nil {
		e.logger.Info().Str("kind", string(KindOf(err))).Msg("upload rejected")
		return cat, err
	}
	if desc.MIMEMismatch {
		e.logger.Warn().
			Str("file", desc.Name).
			Str("extension", desc.DeclaredExtension).
			Str("sniffed", desc.SniffedMIME).
			Msg("content does not match its extension")
	}
	e.logger.Info().
		Str("file", desc.Name).
		Stringer("category", cat).
		Int64("size", desc.Size).
		Msg("upload accepted")
	return cat, nil
}

// Extract runs the extractor for src.Category. Audio and video fail with
// MediaNotSupported; categories without an extractor fail with UnknownFormat.
func (e *Engine) Extract(ctx context.Context, src Source) (ContentModel, error) {
	x, err := e.extractorFor(src.Category)
	if err != nil {
		return nil, err
	}
	return x.Extract(ctx, src)
}

// ListTargets returns the conversion targets offered for ext.
func (e *Engine) ListTargets(ext string) []string {
	return AllowedTargets(ext)
}

// Analyze computes the advisory summary of an extracted upload.
func (e *Engine) Analyze(desc *InputDescriptor, m ContentModel) *Analysis {
	return Analyze(desc, m)
}

// Preview renders the beginning of a model as Markdown.
func (e *Engine) Preview(m ContentModel, maxRows int) (string, error) {
	return Preview(m, maxRows)
}

// Convert produces the artifact for req. The request is checked against the
// source category and the conversion matrix before any converter runs, and
// the model is never modified.
func (e *Engine) Convert(ctx context.Context, req ConversionRequest, opts ...ConvertOption) (*Artifact, error) {
	if req.Content == nil {
		return nil, &ValidationError{Kind: KindNoFile, Detail: "no file has been loaded"}
	}
	ext := NormalizeExtension(req.SourceExtension)
	if _, err := e.extractorFor(CategoryOf(ext)); err != nil {
		return nil, err
	}

	target := NormalizeExtension(req.Target)
	if !IsAllowedTarget(ext, target) {
		return nil, conversionFailed(target, KindUnsupportedTarget,
			fmt.Sprintf("%s cannot be converted to %s", ext, target), nil)
	}
	conv, ok := e.converters[target]
	if !ok {
		return nil, conversionFailed(target, KindUnsupportedTarget,
			fmt.Sprintf("no converter for %s", target), nil)
	}

	baseName := req.BaseName
	if baseName == "" {
		baseName = "converted"
	}
	job := ConvertJob{
		Target:     target,
		BaseName:   baseName,
		SourceSize: req.SourceSize,
		Now:        e.now(),
	}
	for _, opt := range opts {
		opt(&job)
	}

	start := time.Now()
	art, err := conv.Convert(ctx, req.Content, job)
	if err != nil {
		e.logger.Warn().Err(err).Str("target", target).Msg("conversion failed")
		return nil, err
	}
	e.logger.Info().
		Str("source", ext).
		Str("target", target).
		Int("bytes", len(art.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("conversion finished")
	return art, nil
}

// extractorFor returns the extractor serving cat.
func (e *Engine) extractorFor(cat Category) (Extractor, error) {
	if err := extractable(cat); err != nil {
		return nil, err
	}
	x, ok := e.extractors[cat]
	if !ok {
		return nil, extractionFailed(cat, KindUnknownFormat, fmt.Sprintf("no extractor for %s files", cat), nil)
	}
	return x, nil
}

// extractable rejects the categories no extractor serves.
func extractable(cat Category) error {
	switch cat {
	case CategoryAudio, CategoryVideo:
		return extractionFailed(cat, KindMediaNotSupported, "audio and video files are not supported", nil)
	case CategorySpreadsheet, CategoryDocument, CategoryPDF, CategoryText, CategoryCode, CategoryImage:
		return nil
	}
	return extractionFailed(cat, KindUnknownFormat, fmt.Sprintf("%s files cannot be processed", cat), nil)
}

// enableBuiltins registers all built-in extractors and converters.
func (e *Engine) enableBuiltins() {
	e.RegisterExtractor(CategorySpreadsheet, NewTabularExtractor())
	e.RegisterExtractor(CategoryDocument, NewRichDocumentExtractor())
	e.RegisterExtractor(CategoryPDF, NewPagedTextExtractor(e.logger))
	e.RegisterExtractor(CategoryText, NewPlainTextExtractor())
	e.RegisterExtractor(CategoryCode, NewSourceTextExtractor())
	e.RegisterExtractor(CategoryImage, NewImageExtractor())

	e.RegisterConverter(FormatPDF, NewPDFConverter())
	e.RegisterConverter(FormatCSV, NewCSVConverter())
	e.RegisterConverter(FormatTXT, NewTXTConverter())
	e.RegisterConverter(FormatHTML, NewHTMLConverter())
	e.RegisterConverter(FormatJSON, NewJSONConverter())
	e.RegisterConverter(FormatXML, NewXMLConverter())
	e.RegisterConverter(FormatXLSX, NewXLSXConverter())
	e.RegisterConverter(FormatDOCX, NewDOCXConverter())
	e.RegisterConverter(FormatRTF, NewRTFConverter())
	e.RegisterConverter(FormatImages, NewPageImagesConverter())
	images := NewImageConverter()
	for _, f := range []string{FormatPNG, FormatJPG, FormatJPEG, FormatWEBP} {
		e.RegisterConverter(f, images)
	}
}
