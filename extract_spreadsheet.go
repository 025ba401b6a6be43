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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// TabularExtractor reads the first sheet of xlsx, xls and csv files.
type TabularExtractor struct{}

// NewTabularExtractor creates a new TabularExtractor.
func NewTabularExtractor() *TabularExtractor {
	return &TabularExtractor{}
}

func (e *TabularExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}
	var (
		rows   [][]string
		sheets []string
		err    error
	)
	switch NormalizeExtension(src.Extension) {
	case "xlsx":
		rows, sheets, err = readXLSX(src.Data)
	case "xls":
		rows, sheets, err = readXLS(src.Data)
	case "csv":
		rows, sheets, err = readCSV(src.Data)
	default:
		return nil, extractionFailed(src.Category, KindUnknownFormat, fmt.Sprintf("no spreadsheet reader for %q", src.Extension), nil)
	}
	if err != nil {
		return nil, extractionFailed(src.Category, KindParseFailure, "spreadsheet could not be read", err)
	}

	tab := buildTabular(rows, sheets)
	if len(tab.Rows) == 0 {
		return nil, extractionFailed(src.Category, KindEmptyContent, "spreadsheet is empty or malformed", nil)
	}
	return tab, nil
}

func readXLSX(data []byte) ([][]string, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, sheets, nil
}

func readXLS(data []byte) (rows [][]string, sheets []string, err error) {
	defer recoverInto(&err, "read XLS")

	// extrame/xls requires a file path, so we need to write to a temp file
	tmpFile, err := os.CreateTemp("", "fileconv-*.xls")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, bytes.NewReader(data)); err != nil {
		tmpFile.Close()
		return nil, nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("open XLS: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		name := fmt.Sprintf("Sheet%d", i+1)
		if sheet := wb.GetSheet(i); sheet != nil && sheet.Name != "" {
			name = sheet.Name
		}
		sheets = append(sheets, name)
	}

	first := wb.GetSheet(0)
	if first == nil {
		return nil, sheets, nil
	}

	for rowIdx := 0; rowIdx <= int(first.MaxRow); rowIdx++ {
		row := first.Row(rowIdx)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for colIdx := 0; colIdx < row.LastCol(); colIdx++ {
			cells = append(cells, row.Col(colIdx))
		}
		rows = append(rows, cells)
	}
	return trimTrailingEmptyRows(rows), sheets, nil
}

func readCSV(data []byte) ([][]string, []string, error) {
	text := decodeText(data)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // allow variable fields
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV: %w", err)
	}
	return records, []string{"Sheet1"}, nil
}

// buildTabular pads rows to a rectangle and derives the record view.
func buildTabular(rows [][]string, sheets []string) *Tabular {
	rows = trimTrailingEmptyRows(rows)
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	padded := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		padded = append(padded, cells)
	}

	count := len(sheets)
	if count == 0 {
		sheets = []string{"Sheet1"}
		count = 1
	}
	return &Tabular{
		Rows:       padded,
		Records:    recordsFromRows(padded),
		SheetNames: sheets,
		SheetCount: count,
	}
}

// recordsFromRows keys every non-blank data row by the first row. Blank
// headers become __EMPTY, __EMPTY_1, ...; repeated headers get _1, _2 suffixes.
func recordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	keys := headerKeys(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := Record{Keys: keys, Values: make(map[string]string, len(keys))}
		for i, k := range keys {
			if i < len(row) {
				rec.Values[k] = row[i]
			} else {
				rec.Values[k] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		base := strings.TrimSpace(h)
		if base == "" {
			base = "__EMPTY"
		}
		key := base
		if n, ok := seen[base]; ok {
			for {
				n++
				key = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[key]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[key] = 0
		keys[i] = key
	}
	return keys
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}
