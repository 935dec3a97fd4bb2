package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrose-ai/internal/model"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		filename string
		want     model.FileCategory
	}{
		{"plain text", "text/plain", "notes.txt", model.FileCategoryText},
		{"text with charset", "text/plain; charset=utf-8", "notes", model.FileCategoryText},
		{"csv mime wins over text prefix", "text/csv", "data.csv", model.FileCategoryData},
		{"json mime", "application/json", "payload", model.FileCategoryData},
		{"xml mime", "application/xml", "feed", model.FileCategoryData},
		{"png", "image/png", "a.png", model.FileCategoryImage},
		{"mp3", "audio/mpeg", "a.mp3", model.FileCategoryAudio},
		{"mp4", "video/mp4", "a.mp4", model.FileCategoryVideo},
		{"pdf", "application/pdf", "a.pdf", model.FileCategoryPDF},
		{"zip", "application/zip", "a.zip", model.FileCategoryArchive},
		{"rar", "application/x-rar-compressed", "a.rar", model.FileCategoryArchive},
		{"extension fallback csv", "application/octet-stream", "DATA.CSV", model.FileCategoryData},
		{"extension fallback markdown", "", "README.md", model.FileCategoryText},
		{"extension fallback 7z", "", "backup.7z", model.FileCategoryArchive},
		{"unknown", "application/octet-stream", "model.bin", model.FileCategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFile(tt.mime, tt.filename))
		})
	}
}

func TestAnalyzeCSV(t *testing.T) {
	got := analyzeFile(UploadedFile{
		Filename:    "data.csv",
		ContentType: "text/csv",
		Data:        []byte("a,b\n1,2"),
	})

	assert.Equal(t, model.FileCategoryData, got.category)
	assert.Contains(t, got.text, "Data File Analysis")
	assert.Contains(t, got.text, "**Type:** CSV Data")
	assert.Contains(t, got.text, "a,b\n1,2")

	variant, ok := got.variant.(model.DataAnalysis)
	require.True(t, ok)
	assert.Equal(t, "csv", variant.DataType)
	assert.Equal(t, "a,b\n1,2", variant.Content)
}

func TestAnalyzeEmptyTextFile(t *testing.T) {
	got := analyzeFile(UploadedFile{Filename: "empty.txt", ContentType: "text/plain"})

	assert.Equal(t, model.FileCategoryText, got.category)
	assert.Contains(t, got.text, "**Content Preview:**\n\n")

	variant, ok := got.variant.(model.TextAnalysis)
	require.True(t, ok)
	assert.Zero(t, variant.WordCount)
	assert.Zero(t, variant.CharacterCount)
	assert.Equal(t, 1, variant.LineCount)
	assert.Empty(t, variant.TextContent)
}

func TestAnalyzeTextTruncatesPreview(t *testing.T) {
	content := strings.Repeat("é", 600)
	got := analyzeFile(UploadedFile{Filename: "long.txt", ContentType: "text/plain", Data: []byte(content)})

	assert.Contains(t, got.text, strings.Repeat("é", 500)+"...")
	assert.NotContains(t, got.text, strings.Repeat("é", 501))

	variant := got.variant.(model.TextAnalysis)
	assert.Equal(t, 600, variant.CharacterCount)
	assert.Equal(t, content, variant.TextContent)
}

func TestAnalyzeImageKeepsShortPreview(t *testing.T) {
	data := make([]byte, 300)
	got := analyzeFile(UploadedFile{Filename: "pic.png", ContentType: "image/png", Data: data})

	assert.Equal(t, model.FileCategoryImage, got.category)
	assert.Contains(t, got.text, "Image File Analysis")
	assert.NotContains(t, got.text, "Content Preview")

	variant := got.variant.(model.ImageAnalysis)
	assert.Equal(t, "image/png", variant.ImageType)
	assert.True(t, strings.HasPrefix(variant.Base64Preview, "data:image/png;base64,"))
	assert.True(t, strings.HasSuffix(variant.Base64Preview, "..."))
	assert.Len(t, variant.Base64Preview, len("data:image/png;base64,")+imagePreviewChars+3)
}

func TestAnalyzeOtherReportsUnknownType(t *testing.T) {
	got := analyzeFile(UploadedFile{Filename: "blob", Data: []byte{1, 2, 3}})

	assert.Equal(t, model.FileCategoryOther, got.category)
	assert.Contains(t, got.text, "**Type:** Unknown")
	assert.Equal(t, model.OtherAnalysis{SpecialFormat: true}, got.variant)
}

func TestCountText(t *testing.T) {
	stats := countText("one two\nthree")
	assert.Equal(t, 2, stats.lines)
	assert.Equal(t, 3, stats.words)
	assert.Equal(t, 13, stats.characters)
}
