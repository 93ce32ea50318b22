package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "lcpipe/internal/errors"
	"lcpipe/pkg/contracts/domain"
)

// Workbook sheet names. Lookup is case-insensitive and tolerates padded
// names, which exported workbooks produce surprisingly often.
const (
	SheetDetections = "Detections"
	SheetInjections = "Injections"
	SheetObjectMeta = "ObjectMeta"
)

// sheetTable is one extracted sheet: normalized headers plus trimmed data
// rows, ready to stream to CSV.
type sheetTable struct {
	name    string
	headers []string
	rows    [][]string
}

// workbookTables bundles the three extracted survey tables.
type workbookTables struct {
	detections *sheetTable
	injections *sheetTable
	objectMeta *sheetTable
}

// extractWorkbook opens an uploaded survey workbook and extracts the three
// canonical tables. The Detections sheet must exist; Injections and
// ObjectMeta default to empty tables with canonical headers.
func extractWorkbook(path string) (*workbookTables, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	detections, err := extractSheet(f, SheetDetections, "detections", domain.RequiredDetectionColumns)
	if err != nil {
		return nil, err
	}
	if detections == nil {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("workbook has no %q sheet", SheetDetections))
	}

	injections, err := extractSheet(f, SheetInjections, "injections", []string{domain.ColInjectionID})
	if err != nil {
		return nil, err
	}
	if injections == nil {
		injections = emptyTable("injections", domain.ColInjectionID)
	}

	objectMeta, err := extractSheet(f, SheetObjectMeta, "object_meta", []string{domain.ColObjectID})
	if err != nil {
		return nil, err
	}
	if objectMeta == nil {
		objectMeta = emptyTable("object_meta", domain.ColObjectID)
	}

	return &workbookTables{
		detections: detections,
		injections: injections,
		objectMeta: objectMeta,
	}, nil
}

// extractSheet pulls one sheet by case-insensitive name. A missing sheet
// returns nil without error; callers decide whether that is fatal.
func extractSheet(f *excelize.File, sheet, tableName string, required []string) (*sheetTable, error) {
	actual, ok := findSheet(f, sheet)
	if !ok {
		return nil, nil
	}

	rows, err := f.GetRows(actual)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read sheet %q", actual), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("sheet %q is empty, header row required", actual))
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		headers[i] = normalizeHeader(cell)
	}
	if missing := missingColumns(headers, required); len(missing) > 0 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("sheet %q is missing required columns %v", actual, missing))
	}

	data := make([][]string, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row, hasData := normalizeRow(raw, len(headers))
		if !hasData {
			continue
		}
		data = append(data, row)
	}

	return &sheetTable{name: tableName, headers: headers, rows: data}, nil
}

func emptyTable(name string, headers ...string) *sheetTable {
	return &sheetTable{name: name, headers: headers}
}

// findSheet resolves a sheet name case-insensitively against the workbook's
// sheet list.
func findSheet(f *excelize.File, want string) (string, bool) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, true
		}
	}
	return "", false
}

// normalizeHeader canonicalizes a header cell: trimmed, lowercased, inner
// spaces become underscores ("Epoch Day" reads as epoch_day).
func normalizeHeader(raw string) string {
	header := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(header, " ", "_")
}

func missingColumns(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// normalizeRow trims every cell and pads or truncates to the header width.
// The second return reports whether any cell survived non-empty; all-blank
// rows are dropped by the caller.
func normalizeRow(raw []string, width int) ([]string, bool) {
	row := make([]string, width)
	hasData := false
	for i := 0; i < width && i < len(raw); i++ {
		row[i] = strings.TrimSpace(raw[i])
		if row[i] != "" {
			hasData = true
		}
	}
	return row, hasData
}
