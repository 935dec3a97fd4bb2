package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type FileCategory string

const (
	FileCategoryText    FileCategory = "text"
	FileCategoryImage   FileCategory = "image"
	FileCategoryAudio   FileCategory = "audio"
	FileCategoryVideo   FileCategory = "video"
	FileCategoryPDF     FileCategory = "pdf"
	FileCategoryArchive FileCategory = "archive"
	FileCategoryData    FileCategory = "data"
	FileCategoryOther   FileCategory = "other"
)

type FileRecord struct {
	ID             uint                             `gorm:"primaryKey" json:"id"`
	UserID         uint                             `gorm:"not null;index" json:"user_id"`
	Filename       string                           `gorm:"size:512;not null" json:"filename"`
	FileType       string                           `gorm:"size:128" json:"file_type"`
	FileSize       int64                            `gorm:"not null" json:"file_size"`
	FileURL        string                           `gorm:"type:longtext" json:"file_url"`
	Processed      bool                             `gorm:"not null;default:false" json:"processed"`
	AnalysisResult datatypes.JSONType[FileAnalysis] `json:"analysis_result"`
	CreatedAt      time.Time                        `json:"created_at"`
}

// AnalysisVariant is one arm of the FileAnalysis union.
type AnalysisVariant interface {
	Category() FileCategory
}

// FileAnalysis is a tagged union keyed by file category. It serialises as a
// flat object holding the variant's fields plus "category".
type FileAnalysis struct {
	Variant AnalysisVariant
}

type TextAnalysis struct {
	TextContent    string `json:"textContent"`
	WordCount      int    `json:"wordCount"`
	LineCount      int    `json:"lineCount"`
	CharacterCount int    `json:"characterCount"`
}

type ImageAnalysis struct {
	ImageType     string `json:"imageType"`
	Base64Preview string `json:"base64Preview"`
}

type AudioAnalysis struct {
	AudioType string `json:"audioType"`
	Duration  string `json:"duration"`
}

type VideoAnalysis struct {
	VideoType string `json:"videoType"`
	Size      int64  `json:"size"`
}

type PDFAnalysis struct {
	DocumentType string `json:"documentType"`
	Pages        string `json:"pages"`
}

type ArchiveAnalysis struct {
	ArchiveType string `json:"archiveType"`
	Compressed  bool   `json:"compressed"`
}

type DataAnalysis struct {
	DataType string `json:"dataType"`
	Content  string `json:"content"`
}

type OtherAnalysis struct {
	FileType      string `json:"fileType"`
	SpecialFormat bool   `json:"specialFormat"`
}

func (TextAnalysis) Category() FileCategory    { return FileCategoryText }
func (ImageAnalysis) Category() FileCategory   { return FileCategoryImage }
func (AudioAnalysis) Category() FileCategory   { return FileCategoryAudio }
func (VideoAnalysis) Category() FileCategory   { return FileCategoryVideo }
func (PDFAnalysis) Category() FileCategory     { return FileCategoryPDF }
func (ArchiveAnalysis) Category() FileCategory { return FileCategoryArchive }
func (DataAnalysis) Category() FileCategory    { return FileCategoryData }
func (OtherAnalysis) Category() FileCategory   { return FileCategoryOther }

func NewFileAnalysis(v AnalysisVariant) datatypes.JSONType[FileAnalysis] {
	return datatypes.NewJSONType(FileAnalysis{Variant: v})
}

// Category returns the tag, or "" for an empty union.
func (a FileAnalysis) Category() FileCategory {
	if a.Variant == nil {
		return ""
	}
	return a.Variant.Category()
}

func (a FileAnalysis) MarshalJSON() ([]byte, error) {
	if a.Variant == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(a.Variant)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(a.Variant.Category())
	if err != nil {
		return nil, err
	}
	fields["category"] = tag
	return json.Marshal(fields)
}

func (a *FileAnalysis) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Variant = nil
		return nil
	}
	var head struct {
		Category FileCategory `json:"category"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var v AnalysisVariant
	switch head.Category {
	case FileCategoryText:
		var t TextAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryImage:
		var t ImageAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryAudio:
		var t AudioAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryVideo:
		var t VideoAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryPDF:
		var t PDFAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryArchive:
		var t ArchiveAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryData:
		var t DataAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	case FileCategoryOther:
		var t OtherAnalysis
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v = t
	default:
		return fmt.Errorf("unknown file analysis category %q", head.Category)
	}
	a.Variant = v
	return nil
}
