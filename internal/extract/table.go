package extract

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Tabular files are flattened row-major into one space-separated string:
// cells joined per row, rows joined in original order.

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", err
	}
	return flattenRows(rows), nil
}

func extractXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", err
	}
	return flattenRows(rows), nil
}

func flattenRows(rows [][]string) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, strings.Join(row, " "))
	}
	return strings.Join(parts, " ")
}
