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
	"context"
	"time"
)

// Source is a validated upload on its way to an extractor. Category is decided
// once by Validate and never re-derived.
type Source struct {
	Data      []byte
	Name      string
	Extension string
	Category  Category

	// Displays mints preview handles for image sources. May be nil.
	Displays DisplayMinter
}

// DisplayMinter hands out revocable preview handles.
type DisplayMinter interface {
	Acquire() *DisplayRef
}

// Extractor turns a raw byte buffer into exactly one ContentModel variant.
type Extractor interface {
	Extract(ctx context.Context, src Source) (ContentModel, error)
}

// Artifact is a converted, downloadable blob.
type Artifact struct {
	Data     []byte
	MIMEType string
	Filename string
}

// ConvertJob carries everything a TargetConverter needs besides the model.
type ConvertJob struct {
	Target   string
	BaseName string
	// SourceSize is the original upload size; PDF rendering checkpoints
	// sources above LargeFileThreshold.
	SourceSize int64
	Progress   ProgressFunc
	Now        time.Time
}

// ProgressFunc is called at rendering checkpoints with the number of chunks
// done and the total.
type ProgressFunc func(done, total int)

// TargetConverter produces one output format. It must not mutate the model.
type TargetConverter interface {
	Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error)
}

// Output MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMECSV  = "text/csv;charset=utf-8"
	MIMETXT  = "text/plain;charset=utf-8"
	MIMEHTML = "text/html;charset=utf-8"
	MIMEJSON = "application/json;charset=utf-8"
	MIMEXML  = "application/xml;charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMERTF  = "application/rtf"
	MIMEZIP  = "application/zip"
)

// newArtifact names the output after the source base name and the target.
func newArtifact(data []byte, mime string, job ConvertJob) *Artifact {
	return &Artifact{
		Data:     data,
		MIMEType: mime,
		Filename: job.BaseName + "." + job.Target,
	}
}
