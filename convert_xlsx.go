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
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheetName   = "Sheet1"
	xlsxMinColWidth = 10
	xlsxMaxColWidth = 50
)

// XLSXConverter writes content to a single-sheet workbook.
type XLSXConverter struct{}

// NewXLSXConverter creates a new XLSXConverter.
func NewXLSXConverter() *XLSXConverter {
	return &XLSXConverter{}
}

func (c *XLSXConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	rows, err := sheetRows(m)
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content does not fit a worksheet", err)
	}
	data, err := writeWorkbook(rows)
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the workbook could not be written", err)
	}
	return newArtifact(data, MIMEXLSX, job), nil
}

// sheetRows picks the grid to write: tabular rows or records, one cell holding
// a JSON dump for structured models without text, else one line per row.
// Dumps and lines longer than a cell can hold continue in the next columns of
// the same row; a table cell that long is an error.
func sheetRows(m ContentModel) ([][]string, error) {
	if rows := tableRows(m); rows != nil {
		for r, row := range rows {
			for c, v := range row {
				if n := charCount(v); n > excelize.TotalCellChars {
					return nil, fmt.Errorf("cell at row %d column %d holds %d characters, the limit is %d",
						r+1, c+1, n, excelize.TotalCellChars)
				}
			}
		}
		return rows, nil
	}
	switch m.(type) {
	case *SourceText, *ImageRef, *Tabular:
		dump, err := dumpJSON(m, false)
		if err != nil {
			return nil, err
		}
		return [][]string{splitCell(dump)}, nil
	}
	text, err := flatText(m, "\t")
	if err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = splitCell(line)
	}
	return rows, nil
}

// splitCell cuts s into pieces of at most excelize.TotalCellChars runes.
func splitCell(s string) []string {
	if charCount(s) <= excelize.TotalCellChars {
		return []string{s}
	}
	var parts []string
	runes := []rune(s)
	for len(runes) > excelize.TotalCellChars {
		parts = append(parts, string(runes[:excelize.TotalCellChars]))
		runes = runes[excelize.TotalCellChars:]
	}
	return append(parts, string(runes))
}

func writeWorkbook(rows [][]string) (_ []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		if err := f.SetSheetRow(xlsxSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	for col, width := range columnWidths(rows) {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(xlsxSheetName, name, name, float64(width)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// columnWidths is the longest cell of each column in characters, floored at
// xlsxMinColWidth and capped at xlsxMaxColWidth.
func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, v := range row {
			for len(widths) <= c {
				widths = append(widths, xlsxMinColWidth)
			}
			if n := min(charCount(v), xlsxMaxColWidth); n > widths[c] {
				widths[c] = n
			}
		}
	}
	return widths
}

// cellValue stores numeric-looking text as a number. Integers outside the
// int64 range and floats that would lose digits stay text.
func cellValue(s string) any {
	if !isJSONNumber(s) {
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}
