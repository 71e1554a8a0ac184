// Package spreadsheet сериализует отчёт в формат xlsx.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"visit-bot/internal/domain/entity"
)

const (
	sheetName   = "Visits"
	coordFormat = "0.000000"
)

// FileName имя файла отчёта
func FileName(doc *entity.ReportDocument) string {
	return doc.Title + ".xlsx"
}

// Render строит xlsx-файл: строка заголовков, затем по строке на визит.
// Пустой отчёт даёт файл только с заголовками.
func Render(doc *entity.ReportDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	headers := make([]any, len(doc.Columns))
	for i, col := range doc.Columns {
		headers[i] = col.Header
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if len(doc.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(doc.Columns), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, st.header); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for i, row := range doc.Rows {
		if err := writeRow(f, st, doc.Columns, i+2, row); err != nil {
			return nil, err
		}
	}

	for i, col := range doc.Columns {
		if col.Width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("set width %s: %w", name, err)
		}
	}

	// закрепляем строку заголовков
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header int
	coord  int
	link   int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	format := coordFormat
	s.coord, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return s, fmt.Errorf("coordinate style: %w", err)
	}

	s.link, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return s, fmt.Errorf("link style: %w", err)
	}
	return s, nil
}

func writeRow(f *excelize.File, st styles, columns []entity.ReportColumn, rowNum int, row []any) error {
	start, _ := excelize.CoordinatesToCellName(1, rowNum)
	values := append([]any(nil), row...)
	if err := f.SetSheetRow(sheetName, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}

	for i, col := range columns {
		if i >= len(row) {
			break
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)

		switch col.Kind {
		case entity.ColumnFloat:
			if err := f.SetCellStyle(sheetName, cell, cell, st.coord); err != nil {
				return err
			}
		case entity.ColumnURL:
			url, _ := row[i].(string)
			if url == "" {
				continue
			}
			if err := f.SetCellHyperLink(sheetName, cell, url, "External"); err != nil {
				return fmt.Errorf("link %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheetName, cell, cell, st.link); err != nil {
				return err
			}
		}
	}
	return nil
}
