package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var errNoGeneratedText = errors.New("no generated_text in response")

// HuggingFaceBackend calls a hosted inference model with {inputs, parameters}.
type HuggingFaceBackend struct {
	client *resty.Client
	url    string
	params SamplingParams
}

func NewHuggingFaceBackend(url, apiKey string, params SamplingParams) *HuggingFaceBackend {
	client := resty.New().SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HuggingFaceBackend{client: client, url: url, params: params}
}

func (b *HuggingFaceBackend) Name() string { return "huggingface" }

func (b *HuggingFaceBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_length":  b.params.MaxLength,
			"temperature": b.params.Temperature,
			"do_sample":   true,
		},
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(b.url)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("inference response status %d", resp.StatusCode())
	}
	return parseGeneratedText(resp.Body())
}

// parseGeneratedText accepts both {"generated_text": ...} and
// [{"generated_text": ...}] bodies.
func parseGeneratedText(raw []byte) (string, error) {
	type generated struct {
		GeneratedText string `json:"generated_text"`
	}

	var single generated
	if err := json.Unmarshal(raw, &single); err == nil {
		if single.GeneratedText == "" {
			return "", errNoGeneratedText
		}
		return single.GeneratedText, nil
	}

	var list []generated
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("parse inference json failed: %w", err)
	}
	if len(list) == 0 || list[0].GeneratedText == "" {
		return "", errNoGeneratedText
	}
	return list[0].GeneratedText, nil
}
