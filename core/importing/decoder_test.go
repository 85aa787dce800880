package importing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
		wantErr  error
	}{
		{name: "csv", filename: "students.csv", want: FormatCSV},
		{name: "csv uppercase", filename: "STUDENTS.CSV", want: FormatCSV},
		{name: "xlsx", filename: "marks.xlsx", want: FormatXLSX},
		{name: "json", filename: "dump.json", want: FormatJSON},
		{name: "legacy xls", filename: "old.xls", wantErr: ErrUnsupportedFormat},
		{name: "no extension", filename: "students", wantErr: ErrUnsupportedFormat},
		{name: "pdf", filename: "report.pdf", wantErr: ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("First Name,lastName,Email\nAmit,Sharma,amit@school.edu\nPriya,Patel,priya@school.edu\n")

	iter, err := Decode(data, FormatCSV)
	require.NoError(t, err)
	recs, err := Collect(iter)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// origin indexes are 1-based in input order
	assert.Equal(t, 1, recs[0].Index)
	assert.Equal(t, 2, recs[1].Index)

	// header names are preserved verbatim
	assert.Equal(t, "Amit", recs[0].Get("First Name").AsString())
	assert.Equal(t, "Sharma", recs[0].Get("lastName").AsString())
	assert.True(t, recs[0].Get("firstName").IsAbsent())
	assert.Equal(t, "priya@school.edu", recs[1].Get("Email").AsString())
}

func TestDecodeCSVRaggedRow(t *testing.T) {
	data := []byte("a,b,c\n1,2\n")

	iter, err := Decode(data, FormatCSV)
	require.NoError(t, err)
	recs, err := Collect(iter)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "2", recs[0].Get("b").AsString())
	assert.True(t, recs[0].Get("c").IsAbsent())
}

func TestDecodeCSVMalformed(t *testing.T) {
	// unterminated quote fails mid-stream
	data := []byte("a,b\n\"x,1\ny,2\n")

	iter, err := Decode(data, FormatCSV)
	require.NoError(t, err)
	_, err = Collect(iter)
	require.Error(t, err)

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, FormatCSV, mErr.Format)
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`[
		{"firstName": "Amit", "semester": 3, "active": true},
		{"firstName": "Priya", "address": {"city": "Pune"}}
	]`)

	iter, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	recs, err := Collect(iter)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Amit", recs[0].Get("firstName").AsString())
	n, ok := recs[0].Get("semester").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.0, n)
	// nested objects are not scalars
	assert.True(t, recs[1].Get("address").IsAbsent())
}

func TestDecodeJSONMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"not": "an array"}`), FormatJSON)
	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, FormatJSON, mErr.Format)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("x"), Format("yaml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
