package dashboard

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"classaction-admin/internal/common/errors"
)

const (
	XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	MinColumnWidth = 12
	MaxColumnWidth = 40
	columnPadding  = 2

	fileStampLayout = "20060102-1504"
	defaultSheet    = "Sheet1"
)

var dateColumns = map[string]bool{
	MemberJoinedLabel:       true,
	SubmissionReceivedLabel: true,
}

type ExportKind string

const (
	ExportMembers     ExportKind = "members"
	ExportSubmissions ExportKind = "submissions"
)

func (k ExportKind) Valid() bool {
	return k == ExportMembers || k == ExportSubmissions
}

// Title is the Korean list name used for the sheet and the file name.
func (k ExportKind) Title() string {
	if k == ExportSubmissions {
		return "신청명단"
	}
	return "회원목록"
}

// ExportFileName stamps the download name with now as given; callers pass
// a time already in the display zone.
func ExportFileName(kind ExportKind, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", now.Format(fileStampLayout), kind.Title())
}

// EncodeXLSX writes t to a single-sheet workbook named sheet. Header and
// rows keep their order; date columns are written as DateTimeLayout text.
func EncodeXLSX(t Table, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, errors.NewExportEncodingFailedError(sheet, err)
		}
	}

	cells := RenderCells(t)

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.NewExportEncodingFailedError(sheet, err)
	}

	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.NewExportEncodingFailedError(sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.NewExportEncodingFailedError(sheet, err)
		}
	}

	if err := styleHeader(f, sheet, len(t.Columns)); err != nil {
		return nil, errors.NewExportEncodingFailedError(sheet, err)
	}

	for i, width := range columnWidths(t.Columns, cells) {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errors.NewExportEncodingFailedError(sheet, err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, errors.NewExportEncodingFailedError(sheet, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewExportEncodingFailedError(sheet, err)
	}
	return buf.Bytes(), nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	if columns == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// RenderCells returns the values written to the sheet: date columns as
// text, numbers kept numeric, everything else as display text.
func RenderCells(t Table) [][]any {
	out := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		rendered := make([]any, len(row))
		for j, v := range row {
			isDate := j < len(t.Columns) && dateColumns[t.Columns[j]]
			rendered[j] = exportCell(v, isDate)
		}
		out[i] = rendered
	}
	return out
}

func exportCell(v any, isDate bool) any {
	if isDate {
		return dateText(v)
	}
	switch t := v.(type) {
	case int, int32, int64, float64:
		return t
	default:
		return DisplayValue(v)
	}
}

func dateText(v any) string {
	switch t := v.(type) {
	case time.Time:
		return DisplayValue(t)
	case string:
		for _, layout := range []string{time.RFC3339Nano, DateTimeLayout, "2006-01-02 15:04", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Format(DateTimeLayout)
			}
		}
		return t
	default:
		return DisplayValue(v)
	}
}

// ColumnWidth sizes a column from its longest rendered value in characters.
func ColumnWidth(longest int) float64 {
	w := longest + columnPadding
	if w < MinColumnWidth {
		w = MinColumnWidth
	}
	if w > MaxColumnWidth {
		w = MaxColumnWidth
	}
	return float64(w)
}

// ColumnWidths returns the width of every column of t as it would be exported.
func ColumnWidths(t Table) []float64 {
	return columnWidths(t.Columns, RenderCells(t))
}

func columnWidths(columns []string, cells [][]any) []float64 {
	widths := make([]float64, len(columns))
	for i, c := range columns {
		longest := utf8.RuneCountInString(c)
		for _, row := range cells {
			if i >= len(row) {
				continue
			}
			if n := utf8.RuneCountInString(DisplayValue(row[i])); n > longest {
				longest = n
			}
		}
		widths[i] = ColumnWidth(longest)
	}
	return widths
}
