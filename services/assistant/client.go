package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Reply texts surfaced to the user instead of errors. The chat boundary
// never throws: a failed call produces the fallback string.
const (
	emptyReply    = "متاسفانه نتوانستم پاسخی تولید کنم."
	fallbackReply = "خطایی در ارتباط با هوش مصنوعی رخ داد. لطفا بعدا تلاش کنید."
)

const systemInstruction = `شما "هوش مصنوعی فیلمنتو" هستید. یک دستیار هوشمند و مودب برای عاشقان سینما به زبان فارسی.
وظیفه شما پاسخ دادن به سوالات کاربران درباره فیلم‌ها، سریال‌ها، بازیگران و پیشنهادات فیلم است.
پاسخ‌هایتان باید کوتاه، جذاب و به زبان فارسی روان باشد.
اگر کاربری درباره فیلم خاصی سوال کرد، از اطلاعات ارائه شده در متن استفاده کنید.`

// Client talks to the Gemini chat API.
type Client struct {
	apiKey string
	model  string
	httpc  *http.Client
}

func NewClient(apiKey, model string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	if model == "" {
		model = "gemini-2.5-flash-latest"
	}
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		httpc:  httpc,
	}
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate asks the model for a reply to the prompt, optionally grounding
// it with free-text context about the current title. It always returns a
// displayable string; failures are logged and mapped to the fallback reply.
func (c *Client) Generate(ctx context.Context, prompt, extraContext string) string {
	if c.apiKey == "" {
		log.Printf("[assistant] gemini api key not configured")
		return fallbackReply
	}

	instruction := systemInstruction
	if strings.TrimSpace(extraContext) != "" {
		instruction += "\nاطلاعات فیلم فعلی: " + extraContext
	}

	payload := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: instruction}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{Temperature: 0.7},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[assistant] encode request: %v", err)
		return fallbackReply
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("[assistant] build request: %v", err)
		return fallbackReply
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[assistant] gemini request failed: %v", err)
		return fallbackReply
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[assistant] gemini request failed: %s", resp.Status)
		return fallbackReply
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[assistant] decode response: %v", err)
		return fallbackReply
	}

	var reply strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, p := range parsed.Candidates[0].Content.Parts {
			reply.WriteString(p.Text)
		}
	}

	if strings.TrimSpace(reply.String()) == "" {
		return emptyReply
	}
	return reply.String()
}
