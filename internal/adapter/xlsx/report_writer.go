package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/user/deals-scraper/internal/entity"
)

const sheet = "Sheet1"

// ReportWriter writes reports to <outDir>/<YYYY-MM-DD>.xlsx.
type ReportWriter struct {
	outDir string
	now    func() time.Time
}

func NewReportWriter(outDir string) *ReportWriter {
	return &ReportWriter{outDir: outDir, now: time.Now}
}

// WithClock replaces the clock used to name the file.
func (w *ReportWriter) WithClock(now func() time.Time) *ReportWriter {
	w.now = now
	return w
}

// Path returns the file the next Write will produce.
func (w *ReportWriter) Path() string {
	return filepath.Join(w.outDir, w.now().Format("2006-01-02")+".xlsx")
}

// Write renders one table per store, each with its own header row and
// separated from the previous table by a blank row. Inside a table, Store
// and Item cells repeating the row above are left blank.
func (w *ReportWriter) Write(report *entity.Report) (string, error) {
	path := w.Path()
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", err
	}

	header := make([]interface{}, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	storeCol, itemCol := columnIndex(report.Columns, entity.ColStore), columnIndex(report.Columns, entity.ColItem)

	rowNum := 1
	setRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		rowNum++
		return sw.SetRow(cell, values)
	}

	for start := 0; start < len(report.Rows); {
		end := start
		for end < len(report.Rows) && report.Rows[end].Store == report.Rows[start].Store {
			end++
		}
		if start > 0 {
			rowNum++ // blank separator
		}
		if err := setRow(header); err != nil {
			return "", err
		}
		for i := start; i < end; i++ {
			cells := report.Cells(report.Rows[i])
			if i > start {
				prev := report.Rows[i-1]
				blankIfRepeated(cells, storeCol, prev.Store)
				blankIfRepeated(cells, itemCol, prev.Item)
			}
			if err := setRow(cells); err != nil {
				return "", err
			}
		}
		start = end
	}

	if err := sw.Flush(); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report %s: %w", path, err)
	}
	return path, nil
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func blankIfRepeated(cells []interface{}, col int, prev string) {
	if col < 0 {
		return
	}
	if v, ok := cells[col].(string); ok && v == prev {
		cells[col] = ""
	}
}
