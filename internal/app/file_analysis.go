package app

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"redrose-ai/internal/model"
)

const (
	textPreviewRunes  = 500
	dataPreviewRunes  = 300
	imagePreviewChars = 100
)

var (
	dataMIMETypes = map[string]bool{
		"application/json": true,
		"text/json":        true,
		"text/csv":         true,
		"application/csv":  true,
		"text/xml":         true,
		"application/xml":  true,
	}
	archiveMIMETypes = map[string]bool{
		"application/zip":              true,
		"application/x-zip-compressed": true,
		"application/x-rar-compressed": true,
		"application/vnd.rar":          true,
		"application/x-7z-compressed":  true,
	}
	extensionCategories = map[string]model.FileCategory{
		".json": model.FileCategoryData,
		".xml":  model.FileCategoryData,
		".csv":  model.FileCategoryData,
		".txt":  model.FileCategoryText,
		".md":   model.FileCategoryText,
		".pdf":  model.FileCategoryPDF,
		".zip":  model.FileCategoryArchive,
		".rar":  model.FileCategoryArchive,
		".7z":   model.FileCategoryArchive,
	}
)

// ClassifyFile looks at the declared MIME type first and the filename
// extension second.
func ClassifyFile(mimeType, filename string) model.FileCategory {
	mt := normalizeMIME(mimeType)
	switch {
	case dataMIMETypes[mt]:
		return model.FileCategoryData
	case strings.HasPrefix(mt, "text/"):
		return model.FileCategoryText
	case strings.HasPrefix(mt, "image/"):
		return model.FileCategoryImage
	case strings.HasPrefix(mt, "audio/"):
		return model.FileCategoryAudio
	case strings.HasPrefix(mt, "video/"):
		return model.FileCategoryVideo
	case mt == "application/pdf":
		return model.FileCategoryPDF
	case archiveMIMETypes[mt]:
		return model.FileCategoryArchive
	}

	if category, ok := extensionCategories[strings.ToLower(filepath.Ext(filename))]; ok {
		return category
	}
	return model.FileCategoryOther
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if mimeType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		return parsed
	}
	return mimeType
}

type categoryTemplate struct {
	icon      string
	heading   string
	intro     string
	abilities []string
	question  string
}

var templates = map[model.FileCategory]categoryTemplate{
	model.FileCategoryText: {
		icon:    "📄",
		heading: "Text File Analysis",
		intro:   "This text file has been processed completely FREE! I can help you:",
		abilities: []string{
			"Summarize the content",
			"Extract key information",
			"Convert to different formats",
			"Generate code based on requirements",
			"Create documentation",
		},
		question: "What would you like me to do with this content?",
	},
	model.FileCategoryImage: {
		icon:    "🖼️",
		heading: "Image File Analysis",
		intro:   "Your image has been processed completely FREE! I can help you:",
		abilities: []string{
			"Describe the image content",
			"Extract text from images (OCR)",
			"Resize or convert formats",
			"Generate similar images",
			"Create variations",
			"Use in web development projects",
		},
		question: "What would you like me to do with this image?",
	},
	model.FileCategoryAudio: {
		icon:    "🎵",
		heading: "Audio File Analysis",
		intro:   "Your audio file has been processed completely FREE! I can help you:",
		abilities: []string{
			"Transcribe audio to text",
			"Analyze audio content",
			"Convert to different formats",
			"Extract metadata",
			"Generate similar audio",
			"Create audio variations",
		},
		question: "What would you like me to do with this audio file?",
	},
	model.FileCategoryVideo: {
		icon:    "🎬",
		heading: "Video File Analysis",
		intro:   "Your video file has been processed completely FREE! I can help you:",
		abilities: []string{
			"Extract frames from video",
			"Transcribe video audio",
			"Analyze video content",
			"Convert to different formats",
			"Generate thumbnails",
			"Create video summaries",
		},
		question: "What would you like me to do with this video?",
	},
	model.FileCategoryPDF: {
		icon:    "📋",
		heading: "PDF Document Analysis",
		intro:   "Your PDF has been processed completely FREE! I can help you:",
		abilities: []string{
			"Extract text content",
			"Summarize the document",
			"Convert to other formats",
			"Extract images from PDF",
			"Generate questions/answers",
			"Create study notes",
		},
		question: "What would you like me to do with this PDF?",
	},
	model.FileCategoryArchive: {
		icon:    "📦",
		heading: "Archive File Analysis",
		intro:   "Your archive has been processed completely FREE! I can help you:",
		abilities: []string{
			"List archive contents",
			"Extract specific files",
			"Analyze code projects",
			"Convert archive formats",
			"Process contained files",
			"Generate project documentation",
		},
		question: "What would you like me to do with this archive?",
	},
	model.FileCategoryData: {
		icon:    "📊",
		heading: "Data File Analysis",
		intro:   "Your data file has been processed completely FREE! I can help you:",
		abilities: []string{
			"Parse and analyze data",
			"Convert between formats (JSON/CSV/XML)",
			"Generate visualizations",
			"Create database schemas",
			"Extract insights",
			"Generate reports",
		},
		question: "What would you like me to do with this data?",
	},
	model.FileCategoryOther: {
		icon:    "📁",
		heading: "File Analysis",
		intro:   "Your file has been processed completely FREE! Even though this is a specialized file type, I can still help you:",
		abilities: []string{
			"Analyze file structure",
			"Convert to supported formats",
			"Extract metadata",
			"Process with specialized tools",
			"Integrate into projects",
			"Provide format-specific assistance",
		},
		question: "What would you like me to do with this file?",
	},
}

type detail struct {
	label string
	value string
}

// fileAnalysis is the rendered description plus the stored union variant.
type fileAnalysis struct {
	category model.FileCategory
	text     string
	variant  model.AnalysisVariant
}

func analyzeFile(file UploadedFile) fileAnalysis {
	category := ClassifyFile(file.ContentType, file.Filename)
	size := int64(len(file.Data))
	details := []detail{{"File", file.Filename}}
	var preview *string
	var variant model.AnalysisVariant

	switch category {
	case model.FileCategoryText:
		content := string(file.Data)
		stats := countText(content)
		p := truncateRunes(content, textPreviewRunes)
		preview = &p
		details = append(details,
			detail{"Size", formatKB(size)},
			detail{"Lines", fmt.Sprint(stats.lines)},
			detail{"Characters", fmt.Sprint(stats.characters)},
		)
		variant = model.TextAnalysis{
			TextContent:    content,
			WordCount:      stats.words,
			LineCount:      stats.lines,
			CharacterCount: stats.characters,
		}
	case model.FileCategoryData:
		content := string(file.Data)
		dataType := dataTypeOf(file.ContentType, file.Filename)
		p := truncateRunes(content, dataPreviewRunes)
		preview = &p
		details = append(details,
			detail{"Size", formatKB(size)},
			detail{"Type", strings.ToUpper(dataType) + " Data"},
		)
		variant = model.DataAnalysis{DataType: dataType, Content: content}
	case model.FileCategoryImage:
		details = append(details, detail{"Size", formatMB(size)}, detail{"Type", file.ContentType})
		encoded := base64.StdEncoding.EncodeToString(file.Data)
		if len(encoded) > imagePreviewChars {
			encoded = encoded[:imagePreviewChars]
		}
		variant = model.ImageAnalysis{
			ImageType:     file.ContentType,
			Base64Preview: fmt.Sprintf("data:%s;base64,%s...", file.ContentType, encoded),
		}
	case model.FileCategoryAudio:
		details = append(details, detail{"Size", formatMB(size)}, detail{"Type", file.ContentType})
		variant = model.AudioAnalysis{AudioType: file.ContentType, Duration: "Processing..."}
	case model.FileCategoryVideo:
		details = append(details, detail{"Size", formatMB(size)}, detail{"Type", file.ContentType})
		variant = model.VideoAnalysis{VideoType: file.ContentType, Size: size}
	case model.FileCategoryPDF:
		details = append(details, detail{"Size", formatMB(size)})
		variant = model.PDFAnalysis{DocumentType: "PDF", Pages: "Processing..."}
	case model.FileCategoryArchive:
		details = append(details, detail{"Size", formatMB(size)}, detail{"Type", "Archive"})
		variant = model.ArchiveAnalysis{ArchiveType: file.ContentType, Compressed: true}
	default:
		fileType := file.ContentType
		if fileType == "" {
			fileType = "Unknown"
		}
		details = append(details, detail{"Size", formatMB(size)}, detail{"Type", fileType})
		variant = model.OtherAnalysis{FileType: file.ContentType, SpecialFormat: true}
	}

	return fileAnalysis{
		category: category,
		text:     renderTemplate(templates[category], details, preview),
		variant:  variant,
	}
}

func renderTemplate(tpl categoryTemplate, details []detail, preview *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s - FREE Processing**\n\n", tpl.icon, tpl.heading)
	for _, d := range details {
		fmt.Fprintf(&b, "**%s:** %s\n", d.label, d.value)
	}
	if preview != nil {
		fmt.Fprintf(&b, "\n**Content Preview:**\n%s\n", *preview)
	}
	fmt.Fprintf(&b, "\n✅ **Red Rose AI Analysis:** %s", tpl.intro)
	for _, ability := range tpl.abilities {
		b.WriteString("\n- ")
		b.WriteString(ability)
	}
	b.WriteString("\n\n")
	b.WriteString(tpl.question)
	return b.String()
}

type textStats struct {
	lines      int
	characters int
	words      int
}

func countText(content string) textStats {
	return textStats{
		lines:      strings.Count(content, "\n") + 1,
		characters: utf8.RuneCountInString(content),
		words:      len(strings.Fields(content)),
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// dataTypeOf prefers the filename extension and falls back to the MIME subtype.
func dataTypeOf(mimeType, filename string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}
	mt := normalizeMIME(mimeType)
	if i := strings.LastIndex(mt, "/"); i >= 0 {
		return mt[i+1:]
	}
	return "unknown"
}

func formatKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

func formatMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}

func dataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
