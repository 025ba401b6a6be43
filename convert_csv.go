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
	"strings"
)

// CSVConverter writes tabular content as CSV with every cell quoted.
type CSVConverter struct{}

// NewCSVConverter creates a new CSVConverter.
func NewCSVConverter() *CSVConverter {
	return &CSVConverter{}
}

// Convert prefixes the output with a UTF-8 byte-order mark. Models without
// rows or records are written as a compact JSON dump.
func (c *CSVConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	var body string
	rows := tableRows(m)
	if rows != nil {
		body = csvFromRows(rows)
	} else {
		dump, err := dumpJSON(m, false)
		if err != nil {
			return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be serialized", err)
		}
		body = dump
	}
	return newArtifact([]byte(utf8BOM+body), MIMECSV, job), nil
}

func csvFromRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		lines[i] = strings.Join(cells, ",")
	}
	return strings.Join(lines, "\n")
}

// tableRows returns the array view of tabular content. A model that only has
// records gets a header row built from the union of record keys. Non-tabular
// models return nil.
func tableRows(m ContentModel) [][]string {
	t, ok := m.(*Tabular)
	if !ok {
		return nil
	}
	if len(t.Rows) > 0 {
		return t.Rows
	}
	if len(t.Records) > 0 {
		return rowsFromRecords(t.Records)
	}
	return nil
}

func rowsFromRecords(records []Record) [][]string {
	var header []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.Keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = rec.Get(k)
		}
		rows = append(rows, row)
	}
	return rows
}
