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

package fileconv

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure kinds the pipeline reports.
type Kind string

// Validation kinds.
const (
	KindNoFile            Kind = "no_file"
	KindEmptyFile         Kind = "empty_file"
	KindFileTooLarge      Kind = "file_too_large"
	KindUnsupportedFormat Kind = "unsupported_format"
)

// Extraction kinds.
const (
	KindEmptyContent      Kind = "empty_content"
	KindParseFailure      Kind = "parse_failure"
	KindMediaNotSupported Kind = "media_not_supported"
	KindUnknownFormat     Kind = "unknown_format"
)

// Conversion kinds.
const (
	KindUnsupportedTarget Kind = "unsupported_target_format"
	KindImageDecodeFailed Kind = "image_decode_failed"
	KindImageEncodeFailed Kind = "image_encode_failed"
	KindRenderFailure     Kind = "render_failure"
)

// ErrBusy is returned when an operation is requested while another is in flight.
var ErrBusy = errors.New("another operation is in progress")

// ValidationError rejects an upload before any extraction is attempted.
type ValidationError struct {
	Kind   Kind
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Detail)
}

// ExtractionError aborts the pipeline for the current file. No partial content
// model is exposed alongside it.
type ExtractionError struct {
	Kind     Kind
	Category Category
	Detail   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %s (%s): %s", e.Category, e.Kind, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ConversionError aborts a single conversion attempt. The content model it was
// given stays valid for another target.
type ConversionError struct {
	Kind   Kind
	Target string
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("convert to %q (%s): %s", e.Target, e.Kind, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or "" when err is not a pipeline error.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// DetailOf returns the human-readable detail of a pipeline error, or err.Error().
func DetailOf(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Detail
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Detail
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Detail
	}
	return err.Error()
}

func extractionFailed(cat Category, kind Kind, detail string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Category: cat, Detail: detail, Err: err}
}

// extractionCancelled reports a context that ended before the extractor ran.
func extractionCancelled(cat Category, err error) *ExtractionError {
	return extractionFailed(cat, KindParseFailure, "extraction cancelled", err)
}

func conversionFailed(target string, kind Kind, detail string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Target: target, Detail: detail, Err: err}
}
