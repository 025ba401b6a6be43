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
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
)

// JPEGQuality is the fixed re-encode quality for JPEG output.
const JPEGQuality = 95

// ImageConverter re-encodes an uploaded image as PNG, JPEG or WebP.
type ImageConverter struct{}

// NewImageConverter creates a new ImageConverter.
func NewImageConverter() *ImageConverter {
	return &ImageConverter{}
}

func (c *ImageConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	ref, ok := m.(*ImageRef)
	if !ok {
		return nil, conversionFailed(job.Target, KindUnsupportedTarget, "only images can be converted to "+job.Target, nil)
	}

	img, _, err := image.Decode(bytes.NewReader(ref.Data))
	if err != nil {
		return nil, conversionFailed(job.Target, KindImageDecodeFailed, "the image could not be decoded", err)
	}

	var buf bytes.Buffer
	mime := "image/" + job.Target
	switch job.Target {
	case FormatJPG, FormatJPEG:
		mime = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatWEBP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		return nil, conversionFailed(job.Target, KindUnsupportedTarget, "unsupported image format "+job.Target, nil)
	}
	if err != nil {
		return nil, conversionFailed(job.Target, KindImageEncodeFailed, "the image could not be encoded", err)
	}
	if buf.Len() == 0 {
		return nil, conversionFailed(job.Target, KindImageEncodeFailed, "the encoder produced no output", nil)
	}
	return newArtifact(buf.Bytes(), mime, job), nil
}
