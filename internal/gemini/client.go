package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"excelytics_backend/internal/logger"
)

// fallback когда провайдер не вернул ни одного кандидата
const NoInsightFallback = "No insight could be generated for this data."

// Client - клиент generative-language API.
// Одна попытка, без ретраев: фича некритичная и запускается вручную.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// ============================================
// Формат запроса/ответа generateContent
// ============================================

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildPrompt сериализует строки в плоский текст
// "Row N: col: val, col: val" и оборачивает вопрос в шаблон.
// Ключи колонок сортируются: карты в Go неупорядочены, а промпт
// должен быть воспроизводимым.
func BuildPrompt(rows []map[string]interface{}, question string) string {
	var b strings.Builder

	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Row %d: ", i+1)

		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for j, k := range keys {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", k, row[k])
		}
	}

	return fmt.Sprintf(
		"You are analyzing spreadsheet data.\n\nData:\n%s\n\nQuestion:\n%s\n\nAnswer:",
		b.String(), question,
	)
}

// Generate отправляет промпт и возвращает текст первого кандидата
func (c *Client) Generate(prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		logger.Warn("gemini non-2xx response", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return NoInsightFallback, nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
