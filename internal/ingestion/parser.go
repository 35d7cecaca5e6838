package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/flowlogic/ingest/internal/domain"

	"github.com/xuri/excelize/v2"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes file bytes into an ordered sequence of raw records. The
// first row supplies column headers verbatim (whitespace-trimmed), values
// are trimmed, and fully empty rows are skipped. The sequence is fully
// materialized so downstream batch handling knows the total count up front.
func Parse(fileName string, payload []byte) ([]domain.RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx", ".xls":
		return parseWorkbook(payload)
	case ".json":
		return parseJSON(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) ([]domain.RawRecord, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
		}
		return nil, &ParseError{Err: err}
	}

	return buildRecords(rows)
}

func parseWorkbook(payload []byte) ([]domain.RawRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read rows: %w", err)}
	}

	return buildRecords(rows)
}

func parseJSON(payload []byte) ([]domain.RawRecord, error) {
	var objects []map[string]any
	if err := json.Unmarshal(payload, &objects); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("expected a json array of objects: %w", err)}
	}

	records := make([]domain.RawRecord, 0, len(objects))
	for _, object := range objects {
		columns := make([]string, 0, len(object))
		for key := range object {
			columns = append(columns, key)
		}
		sort.Strings(columns)

		values := make(map[string]string, len(object))
		empty := true
		for _, column := range columns {
			value := strings.TrimSpace(stringifyJSONValue(object[column]))
			values[column] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		records = append(records, domain.RawRecord{
			Row:     len(records) + 1,
			Columns: columns,
			Values:  values,
		})
	}

	return records, nil
}

// buildRecords turns header+data rows into raw records. Rows from a
// workbook may be ragged, so short rows are padded with empty cells; the
// CSV reader has already enforced a consistent column count.
func buildRecords(rows [][]string) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Err: errors.New("no rows found in file")}
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			var value string
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			values[header] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		records = append(records, domain.RawRecord{
			Row:     len(records) + 1,
			Columns: headers,
			Values:  values,
		})
	}

	return records, nil
}

func stringifyJSONValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
