package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	openAITranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultWhisperModel     = "whisper-1"
)

// OpenAI transcribes audio through the OpenAI transcriptions endpoint.
type OpenAI struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAI creates an OpenAI-backed transcriber.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultWhisperModel
	}
	return &OpenAI{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (o *OpenAI) Name() string { return fmt.Sprintf("openai:%s", o.model) }

// Transcribe sends the clip as multipart form data and returns the
// trimmed transcript. An empty transcript is an unclear-input error.
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte, locale string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio payload: %w", err)
	}
	if err := writer.WriteField("model", o.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if language := localeToLanguage(locale); language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAITranscriptionsURL, &body)
	if err != nil {
		return "", fmt.Errorf("create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.httpClient.Do(req)
	if err != nil {
		slog.Warn("transcription request failed", "error", err)
		return "", errTranscriptionFailed(locale)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errTranscriptionFailed(locale)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("transcription request rejected",
			"status", resp.StatusCode,
			"body", truncate(string(raw), 200))
		return "", errTranscriptionFailed(locale)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", errTranscriptionFailed(locale)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", errUnclearInput(locale)
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
