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
	"path/filepath"
	"strings"
)

// Category groups file extensions that share an extraction strategy.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySpreadsheet
	CategoryDocument
	CategoryPDF
	CategoryText
	CategoryCode
	CategoryImage
	CategoryPresentation
	CategoryArchive
	CategoryAudio
	CategoryVideo
)

var categoryNames = map[Category]string{
	CategoryUnknown:      "unknown",
	CategorySpreadsheet:  "spreadsheet",
	CategoryDocument:     "document",
	CategoryPDF:          "pdf",
	CategoryText:         "text",
	CategoryCode:         "code",
	CategoryImage:        "image",
	CategoryPresentation: "presentation",
	CategoryArchive:      "archive",
	CategoryAudio:        "audio",
	CategoryVideo:        "video",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText writes the category name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// supportedFormats lists the extensions of every category, in declaration order.
var supportedFormats = []struct {
	category   Category
	extensions []string
}{
	{CategorySpreadsheet, []string{"xlsx", "xls", "csv"}},
	{CategoryDocument, []string{"docx", "doc"}},
	{CategoryPDF, []string{"pdf"}},
	{CategoryText, []string{"txt"}},
	{CategoryCode, []string{"json", "xml", "html", "css", "js"}},
	{CategoryImage, []string{"png", "jpg", "jpeg", "gif", "bmp", "webp", "svg"}},
	{CategoryPresentation, []string{"pptx", "ppt"}},
	{CategoryArchive, []string{"zip"}},
	{CategoryAudio, []string{"mp3", "wav", "ogg"}},
	{CategoryVideo, []string{"mp4", "avi", "mkv", "mov", "webm"}},
}

// Target format identifiers.
const (
	FormatPDF    = "pdf"
	FormatCSV    = "csv"
	FormatTXT    = "txt"
	FormatHTML   = "html"
	FormatJSON   = "json"
	FormatXML    = "xml"
	FormatXLSX   = "xlsx"
	FormatDOCX   = "docx"
	FormatRTF    = "rtf"
	FormatImages = "images"
	FormatPNG    = "png"
	FormatJPG    = "jpg"
	FormatJPEG   = "jpeg"
	FormatWEBP   = "webp"
)

// conversionMatrix maps a source extension to its valid targets, in display order.
var conversionMatrix = map[string][]string{
	"xlsx": {FormatPDF, FormatCSV, FormatTXT, FormatHTML, FormatJSON, FormatXML},
	"xls":  {FormatPDF, FormatCSV, FormatTXT, FormatHTML, FormatJSON, FormatXLSX},
	"csv":  {FormatXLSX, FormatPDF, FormatTXT, FormatHTML, FormatJSON},
	"docx": {FormatPDF, FormatTXT, FormatHTML, FormatRTF},
	"doc":  {FormatPDF, FormatTXT, FormatHTML, FormatDOCX},
	"pdf":  {FormatTXT, FormatHTML, FormatDOCX, FormatImages},
	"txt":  {FormatPDF, FormatHTML, FormatDOCX, FormatXLSX},
	"json": {FormatXLSX, FormatCSV, FormatTXT, FormatHTML, FormatXML},
	"xml":  {FormatJSON, FormatTXT, FormatHTML, FormatXLSX},
	"html": {FormatPDF, FormatTXT, FormatDOCX},
	"png":  {FormatPDF, FormatJPG, FormatWEBP},
	"jpg":  {FormatPDF, FormatPNG, FormatWEBP},
	"jpeg": {FormatPDF, FormatPNG, FormatWEBP},
}

// fallbackTargets is offered for any extension missing from the matrix.
var fallbackTargets = []string{FormatTXT, FormatPDF}

// NormalizeExtension lower-cases ext and strips any leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ExtensionOf returns the lower-cased substring after the final dot of name,
// or "" when name has no dot.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// BaseName strips the final extension from name, falling back to "converted".
func BaseName(name string) string {
	name = filepath.Base(name)
	idx := strings.LastIndex(name, ".")
	if idx > 0 {
		name = name[:idx]
	} else if idx == 0 {
		name = ""
	}
	if name == "" || name == "." {
		return "converted"
	}
	return name
}

// CategoryOf returns the category of ext, or CategoryUnknown.
func CategoryOf(ext string) Category {
	ext = NormalizeExtension(ext)
	for _, group := range supportedFormats {
		for _, e := range group.extensions {
			if e == ext {
				return group.category
			}
		}
	}
	return CategoryUnknown
}

// AllowedTargets returns the conversion targets for ext. Extensions missing
// from the matrix get the [txt, pdf] fallback.
func AllowedTargets(ext string) []string {
	targets, ok := conversionMatrix[NormalizeExtension(ext)]
	if !ok {
		targets = fallbackTargets
	}
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// IsAllowedTarget reports whether target is listed for ext.
func IsAllowedTarget(ext, target string) bool {
	target = NormalizeExtension(target)
	for _, t := range AllowedTargets(ext) {
		if t == target {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the union of every category's extensions.
func SupportedExtensions() []string {
	var out []string
	for _, group := range supportedFormats {
		out = append(out, group.extensions...)
	}
	return out
}

// mimeFromExtension returns a MIME type for the extensions the registry knows.
func mimeFromExtension(ext string) string {
	extMap := map[string]string{
		"pdf":  "application/pdf",
		"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"doc":  "application/msword",
		"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"xls":  "application/vnd.ms-excel",
		"html": "text/html",
		"csv":  "text/csv",
		"txt":  "text/plain",
		"json": "application/json",
		"xml":  "text/xml",
		"css":  "text/css",
		"js":   "text/javascript",
		"zip":  "application/zip",
		"png":  "image/png",
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"gif":  "image/gif",
		"bmp":  "image/bmp",
		"webp": "image/webp",
		"svg":  "image/svg+xml",
	}
	if m, ok := extMap[NormalizeExtension(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}
