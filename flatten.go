package fileconv

import "strings"

// flatText reduces any model to one string. Tabular rows are joined with sep.
// Images and anything else fall back to an indented JSON dump of the model.
func flatText(m ContentModel, sep string) (string, error) {
	switch v := m.(type) {
	case *PlainText:
		return v.Text, nil
	case *PagedText:
		return v.Text, nil
	case *RichText:
		return v.Text, nil
	case *Tabular:
		if len(v.Rows) > 0 {
			return joinRows(v.Rows, sep), nil
		}
	case *SourceText:
		return v.Raw, nil
	}
	return dumpJSON(m, true)
}

func joinRows(rows [][]string, sep string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, sep)
	}
	return strings.Join(lines, "\n")
}
