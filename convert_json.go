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
	"encoding/json"
)

// JSONConverter writes content as indented JSON.
type JSONConverter struct{}

// NewJSONConverter creates a new JSONConverter.
func NewJSONConverter() *JSONConverter {
	return &JSONConverter{}
}

// Convert prefers the record view of tabular content, then keys data rows by
// the header row. Source text is re-indented when it parses as JSON and
// wrapped under "content" when it does not.
func (c *JSONConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	data, err := jsonDocument(m)
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be serialized", err)
	}
	return newArtifact(data, MIMEJSON, job), nil
}

func jsonDocument(m ContentModel) ([]byte, error) {
	switch v := m.(type) {
	case *Tabular:
		if len(v.Records) > 0 {
			return encodeJSON(v.Records, true)
		}
		if len(v.Rows) > 0 {
			return encodeJSON(objectsFromRows(v.Rows), true)
		}
	case *SourceText:
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(v.Raw), "", "  "); err == nil {
			return buf.Bytes(), nil
		}
		return encodeJSON(map[string]string{"content": v.Raw}, true)
	}
	return encodeJSON(m, true)
}

// objectsFromRows keys every data row by the header row. A repeated header
// keeps its first position and its last value.
func objectsFromRows(rows [][]string) []Record {
	header := rows[0]
	var keys []string
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if !seen[h] {
			seen[h] = true
			keys = append(keys, h)
		}
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{Keys: keys, Values: make(map[string]string, len(keys))}
		for i, h := range header {
			if i < len(row) {
				rec.Values[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
