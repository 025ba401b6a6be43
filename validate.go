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
	"fmt"
	"strings"
)

const (
	// MaxFileSize is the hard upload ceiling: 50 MiB.
	MaxFileSize int64 = 50 * 1024 * 1024

	// LargeFileThreshold marks sources whose PDF rendering is checkpointed.
	LargeFileThreshold int64 = 10 * 1024 * 1024
)

// InputDescriptor describes an upload. It is not modified after creation.
type InputDescriptor struct {
	Name              string
	DeclaredExtension string
	// MIMEType is the caller-declared type. Advisory only.
	MIMEType string
	Size     int64
	// SniffedMIME is the type detected from the content, when known.
	SniffedMIME string
	// MIMEMismatch is set when the content does not look like its extension.
	MIMEMismatch bool
}

// NewInputDescriptor builds a descriptor for a named upload of size bytes.
func NewInputDescriptor(name, mimeType string, size int64) *InputDescriptor {
	return &InputDescriptor{
		Name:              name,
		DeclaredExtension: ExtensionOf(name),
		MIMEType:          mimeType,
		Size:              size,
	}
}

// DescribeUpload builds a descriptor for data and records what the content
// sniffs as.
func DescribeUpload(name, mimeType string, data []byte) *InputDescriptor {
	desc := NewInputDescriptor(name, mimeType, int64(len(data)))
	desc.SniffedMIME = sniffMIME(data, desc.DeclaredExtension)
	desc.MIMEMismatch = mimeMismatch(data, desc.DeclaredExtension)
	return desc
}

// Validate checks presence, size and extension in that order and returns the
// category the file will be extracted as. The first failing check wins.
func Validate(desc *InputDescriptor) (Category, error) {
	if desc == nil {
		return CategoryUnknown, &ValidationError{Kind: KindNoFile, Detail: "no file selected"}
	}
	if desc.Size <= 0 {
		return CategoryUnknown, &ValidationError{Kind: KindEmptyFile, Detail: fmt.Sprintf("file %q is empty", desc.Name)}
	}
	if desc.Size > MaxFileSize {
		return CategoryUnknown, &ValidationError{
			Kind:   KindFileTooLarge,
			Detail: fmt.Sprintf("file %q is %s, maximum is %s", desc.Name, FormatSize(desc.Size), FormatSize(MaxFileSize)),
		}
	}
	ext := NormalizeExtension(desc.DeclaredExtension)
	cat := CategoryOf(ext)
	if cat == CategoryUnknown {
		return CategoryUnknown, &ValidationError{
			Kind:   KindUnsupportedFormat,
			Detail: fmt.Sprintf("format %q is not supported; supported: %s", ext, strings.Join(SupportedExtensions(), ", ")),
		}
	}
	return cat, nil
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %s", float64(n)/float64(div), []string{"KB", "MB", "GB", "TB"}[exp])
}
