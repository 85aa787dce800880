package importing

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a supported file payload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat infers the payload format from a file name; unknown extensions
// (including legacy .xls) fail with ErrUnsupportedFormat.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", ErrUnsupportedFormat
}

// Decode turns a raw payload into a record sequence. Column header names are
// preserved verbatim; origin indexes start at 1 in input order. Decoding holds
// no mutable cross-record state: calling Decode again restarts the sequence.
func Decode(data []byte, format Format) (RecordIter, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(data)
	case FormatXLSX:
		return decodeXLSX(data)
	case FormatJSON:
		return decodeJSON(data)
	}
	return nil, ErrUnsupportedFormat
}

type csvIter struct {
	r       *csv.Reader
	headers []string
	idx     int
	err     error
}

func decodeCSV(data []byte) (RecordIter, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are tolerated; missing cells stay absent
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, &MalformedInputError{Format: FormatCSV, Err: err}
	}
	return &csvIter{r: r, headers: headers}, nil
}

func (it *csvIter) Next() (RawRecord, bool) {
	if it.err != nil {
		return RawRecord{}, false
	}
	row, err := it.r.Read()
	if err == io.EOF {
		return RawRecord{}, false
	}
	if err != nil {
		it.err = &MalformedInputError{Format: FormatCSV, Err: err}
		return RawRecord{}, false
	}

	it.idx++
	fields := make(map[string]Value, len(it.headers))
	for i, h := range it.headers {
		if i < len(row) {
			fields[h] = StringValue(row[i])
		}
	}
	return RawRecord{Index: it.idx, Fields: fields}, true
}

func (it *csvIter) Err() error { return it.err }

func decodeXLSX(data []byte) (RecordIter, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedInputError{Format: FormatXLSX, Err: err}
	}
	defer func() { _ = wb.Close() }()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedInputError{Format: FormatXLSX, Err: io.ErrUnexpectedEOF}
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, &MalformedInputError{Format: FormatXLSX, Err: err}
	}
	if len(rows) == 0 {
		return IterSlice(nil), nil
	}

	headers := rows[0]
	recs := make([]RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		fields := make(map[string]Value, len(headers))
		for j, h := range headers {
			if j < len(row) {
				fields[h] = StringValue(row[j])
			}
		}
		recs = append(recs, RawRecord{Index: i + 1, Fields: fields})
	}
	return IterSlice(recs), nil
}

func decodeJSON(data []byte) (RecordIter, error) {
	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &MalformedInputError{Format: FormatJSON, Err: err}
	}
	recs := make([]RawRecord, 0, len(items))
	for i, item := range items {
		fields := make(map[string]Value, len(item))
		for k, v := range item {
			fields[k] = ValueOf(v)
		}
		recs = append(recs, RawRecord{Index: i + 1, Fields: fields})
	}
	return IterSlice(recs), nil
}
