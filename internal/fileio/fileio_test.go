package fileio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docedit/internal/diff"
)

func TestReadTXT(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantText string
		wantErr  error
	}{
		{
			name:     "plain utf-8",
			filename: "doc.txt",
			data:     []byte("hello world"),
			wantText: "hello world",
		},
		{
			name:     "utf-8 bom stripped",
			filename: "doc.txt",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...),
			wantText: "hello",
		},
		{
			name:     "crlf normalized",
			filename: "doc.md",
			data:     []byte("line one\r\nline two\r"),
			wantText: "line one\nline two\n",
		},
		{
			name:     "utf-16 le decoded",
			filename: "doc.txt",
			data:     []byte{0xFF, 0xFE, 'h', 0, 'i', 0},
			wantText: "hi",
		},
		{
			name:     "unsupported extension",
			filename: "doc.xlsx",
			data:     []byte("whatever"),
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "empty file",
			filename: "doc.txt",
			data:     nil,
			wantErr:  ErrEmptyDocument,
		},
		{
			name:     "whitespace only",
			filename: "doc.txt",
			data:     []byte("   \n \t "),
			wantErr:  ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Read(tt.filename, tt.data)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, doc.Text)
			assert.Equal(t, tt.filename, doc.Filename)
			assert.Equal(t, int64(len(tt.data)), doc.Size)
		})
	}
}

func TestExportTXTRoundTrip(t *testing.T) {
	original := "First paragraph.\n\nSecond paragraph with more words."

	data, ct, err := Export(original, "txt", nil)
	require.NoError(t, err)
	assert.Contains(t, ct, "text/plain")

	doc, err := Read("roundtrip.txt", data)
	require.NoError(t, err)
	assert.Equal(t, original, doc.Text)
}

func TestExportDOCXRoundTrip(t *testing.T) {
	original := "Title line\nBody line one\nBody line two"

	data, ct, err := Export(original, "docx", nil)
	require.NoError(t, err)
	assert.Equal(t, contentTypeDOCX, ct)

	doc, err := Read("roundtrip.docx", data)
	require.NoError(t, err)
	assert.Equal(t, original, doc.Text)
}

func TestExportDOCXWithChanges(t *testing.T) {
	text := "The quick red fox"
	changes := []diff.Change{{Position: 10, Text: "red"}}

	data, _, err := Export(text, "docx", changes)
	require.NoError(t, err)

	// Round-trip still yields the full text; coloring must not drop runs.
	doc, err := Read("changed.docx", data)
	require.NoError(t, err)
	assert.Equal(t, text, doc.Text)
}

func TestExportDOCXEscapesMarkup(t *testing.T) {
	text := "a < b & c > d"

	data, _, err := Export(text, "docx", nil)
	require.NoError(t, err)

	doc, err := Read("escaped.docx", data)
	require.NoError(t, err)
	assert.Equal(t, text, doc.Text)
}

func TestExportPDF(t *testing.T) {
	data, ct, err := Export("hello pdf\nsecond line", "pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, contentTypePDF, ct)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, _, err := Export("text", "odt", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSpansFor(t *testing.T) {
	text := "abcdef"

	t.Run("no changes single span", func(t *testing.T) {
		spans := spansFor(text, nil)
		require.Len(t, spans, 1)
		assert.Equal(t, text, spans[0].text)
		assert.False(t, spans[0].changed)
	})

	t.Run("middle change partitions text", func(t *testing.T) {
		spans := spansFor(text, []diff.Change{{Position: 2, Text: "cd"}})
		require.Len(t, spans, 3)
		assert.Equal(t, "ab", spans[0].text)
		assert.Equal(t, "cd", spans[1].text)
		assert.True(t, spans[1].changed)
		assert.Equal(t, "ef", spans[2].text)
	})

	t.Run("out of range change clamped", func(t *testing.T) {
		spans := spansFor(text, []diff.Change{{Position: 10, Text: "zz"}})
		var joined string
		for _, sp := range spans {
			joined += sp.text
		}
		assert.Equal(t, text, joined)
	})
}
