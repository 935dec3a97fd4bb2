package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

// ContentService produces placeholder text, image and code payloads and keeps
// a record of each generation.
type ContentService struct {
	repo     *repository.GeneratedContentRepository
	activity activityRecorder
	logger   *zap.Logger
}

type TextResult struct {
	ID   uint   `json:"id,omitempty"`
	Text string `json:"text"`
}

type ImageResult struct {
	ID          uint   `json:"id,omitempty"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

type CodeResult struct {
	ID          uint   `json:"id,omitempty"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

func NewContentService(repo *repository.GeneratedContentRepository, publisher ActivityPublisher, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		repo:     repo,
		activity: activityRecorder{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (s *ContentService) GenerateText(ctx context.Context, userID uint, prompt, kind string) (*TextResult, error) {
	prompt, err := cleanPrompt(userID, prompt)
	if err != nil {
		return nil, err
	}
	kind = orDefault(kind, "default")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleFromPrompt(prompt))
	switch kind {
	case "email":
		fmt.Fprintf(&b, "Hello,\n\nI'm reaching out regarding %s. ", prompt)
		b.WriteString("Here is a clear summary of the key points and the next steps we can take together.\n\nBest regards,\nRed Rose AI")
	case "blog":
		fmt.Fprintf(&b, "## Introduction\n\n%s is worth a closer look. ", prompt)
		b.WriteString("In this post we walk through the background, the main ideas and practical takeaways.\n\n")
		b.WriteString("## Key Points\n\n- Why it matters\n- How it works\n- What to do next\n\n## Conclusion\n\nStart small, iterate often, and keep learning.")
	case "story":
		fmt.Fprintf(&b, "Once upon a time, there was a story about %s. ", prompt)
		b.WriteString("It began quietly, grew into an adventure, and ended with something new learned along the way.")
	default:
		fmt.Fprintf(&b, "Here is content generated for: %s\n\n", prompt)
		b.WriteString("Red Rose AI created this text completely FREE. Ask for a different tone, length or format at any time.")
	}

	result := &TextResult{Text: b.String()}
	result.ID = s.store(ctx, userID, model.ContentTypeText, prompt, result.Text, datatypes.JSONMap{"type": kind})
	return result, nil
}

func (s *ContentService) GenerateImage(ctx context.Context, userID uint, prompt, style string) (*ImageResult, error) {
	prompt, err := cleanPrompt(userID, prompt)
	if err != nil {
		return nil, err
	}
	style = orDefault(style, "realistic")

	query := url.QueryEscape(fmt.Sprintf("%s %s style", prompt, style))
	result := &ImageResult{
		ImageURL: fmt.Sprintf("/placeholder.svg?height=512&width=512&query=%s", query),
		Description: fmt.Sprintf("🎨 **Image Generated - FREE**\n\n**Prompt:** %s\n**Style:** %s\n**Resolution:** 512x512\n\n"+
			"✅ Your image was generated completely FREE! Ask for variations, a different style, or a higher resolution.", prompt, style),
	}
	result.ID = s.store(ctx, userID, model.ContentTypeImage, prompt, result.ImageURL, datatypes.JSONMap{
		"style":       style,
		"description": result.Description,
	})
	return result, nil
}

func (s *ContentService) GenerateCode(ctx context.Context, userID uint, prompt, language, framework string) (*CodeResult, error) {
	prompt, err := cleanPrompt(userID, prompt)
	if err != nil {
		return nil, err
	}
	language = strings.ToLower(orDefault(language, "javascript"))
	framework = orDefault(framework, "none")

	var code string
	switch language {
	case "python":
		code = fmt.Sprintf("# %s\n\ndef main():\n    \"\"\"Entry point.\"\"\"\n    print(\"Generated by Red Rose AI\")\n\n\nif __name__ == \"__main__\":\n    main()\n", prompt)
	case "html":
		code = fmt.Sprintf("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n  <meta charset=\"UTF-8\">\n  <title>%s</title>\n</head>\n<body>\n  <h1>%s</h1>\n</body>\n</html>\n", prompt, prompt)
	case "go":
		code = fmt.Sprintf("// %s\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Generated by Red Rose AI\")\n}\n", prompt)
	default:
		if framework == "react" {
			code = fmt.Sprintf("// %s\nexport default function App() {\n  return <h1>Generated by Red Rose AI</h1>;\n}\n", prompt)
		} else {
			code = fmt.Sprintf("// %s\nfunction main() {\n  console.log(\"Generated by Red Rose AI\");\n}\n\nmain();\n", prompt)
		}
	}

	result := &CodeResult{
		Code:        code,
		Language:    language,
		Explanation: fmt.Sprintf("This %s starter (framework: %s) was generated completely FREE for: %s. Extend it with your own logic.", language, framework, prompt),
	}
	result.ID = s.store(ctx, userID, model.ContentTypeCode, prompt, code, datatypes.JSONMap{
		"language":    language,
		"framework":   framework,
		"explanation": result.Explanation,
	})
	return result, nil
}

func (s *ContentService) List(ctx context.Context, userID uint) ([]model.GeneratedContent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserID(ctx, userID)
}

// store keeps a record of the generation; failures are logged and yield 0.
func (s *ContentService) store(ctx context.Context, userID uint, contentType, prompt, payload string, metadata datatypes.JSONMap) uint {
	record := &model.GeneratedContent{
		UserID:      userID,
		ContentType: contentType,
		Prompt:      prompt,
		Content:     payload,
		Metadata:    metadata,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("store generated content failed", zap.String("content_type", contentType), zap.Error(err))
		return 0
	}
	s.activity.record(ctx, userID, model.ActivityContentGenerated, record.ID, contentType)
	return record.ID
}

func cleanPrompt(userID uint, prompt string) (string, error) {
	if userID == 0 {
		return "", ErrInvalidInput
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrPromptEmpty
	}
	return prompt, nil
}

func titleFromPrompt(prompt string) string {
	title := truncateRunes(prompt, 60)
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
