// Package excel loads tabular datasets from .xlsx and .csv files into frames
// the fairness scorers can consume.
package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fairbench/domain/core"
	"fairbench/domain/dataset"
)

// DataReader handles reading Excel and CSV files.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the file; the extension selects the
// format, defaulting to xlsx.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadFrame reads the file into a frame. The first row is the header; numeric
// cells parse as-is, blank cells become NaN, and non-numeric cells are
// integer-coded per column in first-occurrence order.
func (r *DataReader) ReadFrame() (*dataset.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have a header row and at least one data row", r.filePath)
	}
	return coerceRows(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// coerceRows converts string cells to the frame's float64 representation.
// Category codes are assigned per column in first-occurrence order so the
// coding is stable for a given file.
func coerceRows(rows [][]string) (*dataset.Frame, error) {
	headers := rows[0]
	columns := core.ColumnKeys(headers)
	frame := dataset.NewFrame(columns)
	codes := make([]map[string]float64, len(headers))
	for i := range codes {
		codes[i] = map[string]float64{}
	}

	for rowIdx, row := range rows[1:] {
		vals := make([]float64, len(headers))
		for colIdx := range headers {
			cell := ""
			if colIdx < len(row) {
				cell = strings.TrimSpace(row[colIdx])
			}
			vals[colIdx] = coerceCell(cell, codes[colIdx])
		}
		if err := frame.AppendRow(vals); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+2, err)
		}
	}
	return frame, nil
}

func coerceCell(cell string, codes map[string]float64) float64 {
	if cell == "" {
		return math.NaN()
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	if code, ok := codes[cell]; ok {
		return code
	}
	code := float64(len(codes))
	codes[cell] = code
	return code
}
