package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dentastat/domain/core"
	"dentastat/domain/survey"

	"github.com/xuri/excelize/v2"
)

// FileReader reads a raw survey table from a CSV or XLSX file. It implements
// ports.RawSource.
type FileReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewFileReader creates a reader that handles both Excel and CSV files based
// on the file extension.
func NewFileReader(filePath string) *FileReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &FileReader{filePath: filePath, fileType: fileType}
}

// Name identifies the source in logs and dataset metadata
func (r *FileReader) Name() string {
	return fmt.Sprintf("file:%s", r.filePath)
}

// Load reads the file into a raw table. A missing or unreadable file is a
// DataUnavailable condition: the caller must halt rather than render partial
// data.
func (r *FileReader) Load(ctx context.Context) (*survey.RawTable, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, core.NewSourceError(r.Name(), err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, core.NewSourceError(r.Name(), err)
	}

	if len(rows) < 2 {
		return nil, core.NewSourceError(r.Name(), fmt.Errorf("need a header row and at least one data row, got %d rows", len(rows)))
	}

	return processRows(rows), nil
}

func (r *FileReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Survey exports can carry ragged trailing columns.
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *FileReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into a RawTable, trimming header and
// cell whitespace the way the survey exports require.
func processRows(rows [][]string) *survey.RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []survey.RawRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(survey.RawRow)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &survey.RawTable{
		Headers: headers,
		Rows:    dataRows,
	}
}
