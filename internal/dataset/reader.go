package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lcpipe/internal/config"
	apperrors "lcpipe/internal/errors"
)

// Dataset bundles the three loaded survey tables.
type Dataset struct {
	Detections *Frame
	Injections *Frame
	ObjectMeta *Frame
}

// LoadDataset loads detections.csv, injections.csv, and object_meta.csv
// from dir. All three files must exist and parse; errors name the file
// that failed.
func LoadDataset(dir string) (*Dataset, error) {
	detections, err := ReadCSVFile(filepath.Join(dir, config.DetectionsFileName))
	if err != nil {
		return nil, err
	}

	injections, err := ReadCSVFile(filepath.Join(dir, config.InjectionsFileName))
	if err != nil {
		return nil, err
	}

	objectMeta, err := ReadCSVFile(filepath.Join(dir, config.ObjectMetaFileName))
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Detections: detections,
		Injections: injections,
		ObjectMeta: objectMeta,
	}, nil
}

// ReadCSVFile reads one CSV file into a Frame. The first row is the
// header (a leading UTF-8 BOM is stripped). Data rows shorter than the
// header are padded with missing cells; longer rows are truncated to the
// header width.
func ReadCSVFile(path string) (*Frame, error) {
	base := filepath.Base(path)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound,
				fmt.Sprintf("%s not found", base), err).
				WithContext("path", path)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("open %s", base), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read %s", base), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: empty file, header row required", base), nil)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, normalizeWidth(record, len(header)))
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	return NewFrame(name, header, rows), nil
}

// normalizeWidth pads or truncates a record to the given width. Padded
// tail cells read as missing.
func normalizeWidth(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	if len(record) > width {
		return record[:width]
	}

	row := make([]string, width)
	copy(row, record)
	return row
}
