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
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PageImagesConverter renders each page of text onto a PNG at the PDF page
// geometry, one point per pixel, and bundles the images in a zip archive.
type PageImagesConverter struct{}

// NewPageImagesConverter creates a new PageImagesConverter.
func NewPageImagesConverter() *PageImagesConverter {
	return &PageImagesConverter{}
}

func (c *PageImagesConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	var pages []string
	if p, ok := m.(*PagedText); ok {
		pages = p.Pages
	} else {
		text, err := flatText(m, ", ")
		if err != nil {
			return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be flattened to text", err)
		}
		pages = []string{text}
	}

	data, err := renderPageImages(ctx, pages)
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the page images could not be rendered", err)
	}
	return &Artifact{
		Data:     data,
		MIMEType: MIMEZIP,
		Filename: job.BaseName + "-images.zip",
	}, nil
}

func renderPageImages(ctx context.Context, pages []string) ([]byte, error) {
	face := basicfont.Face7x13
	measure := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
	disabled := &pdfCheckpoints{ctx: ctx}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheets, err := layoutPDF(page, measure, disabled)
		if err != nil {
			return nil, err
		}
		for j, lines := range sheets {
			name := fmt.Sprintf("page-%03d.png", i+1)
			if len(sheets) > 1 {
				name = fmt.Sprintf("page-%03d-%d.png", i+1, j+1)
			}
			w, err := zw.Create(name)
			if err != nil {
				return nil, err
			}
			if err := png.Encode(w, drawTextSheet(lines, face)); err != nil {
				return nil, err
			}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTextSheet(lines []string, face font.Face) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, int(pdfPageWidth), int(pdfPageHeight)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Src: image.Black, Face: face}
	y := pdfTopBaseline
	for _, line := range lines {
		d.Dot = fixed.P(int(pdfMargin), int(pdfPageHeight-y))
		d.DrawString(line)
		y -= pdfLineHeight
	}
	return img
}
