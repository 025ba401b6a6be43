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

import "context"

// TXTConverter writes the flat text of any model, joining tabular cells with
// tabs.
type TXTConverter struct{}

// NewTXTConverter creates a new TXTConverter.
func NewTXTConverter() *TXTConverter {
	return &TXTConverter{}
}

func (c *TXTConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	text, err := flatText(m, "\t")
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be flattened to text", err)
	}
	return newArtifact([]byte(text), MIMETXT, job), nil
}
