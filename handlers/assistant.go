package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"filmento/services/assistant"
)

type chatGenerator interface {
	Generate(ctx context.Context, prompt, extraContext string) string
}

var _ chatGenerator = (*assistant.Client)(nil)

// AssistantHandler bridges the chat UI to the model. It never returns an
// error status for upstream failures: the client already maps those to a
// displayable fallback reply.
type AssistantHandler struct {
	Client chatGenerator
}

func NewAssistantHandler(client chatGenerator) *AssistantHandler {
	return &AssistantHandler{Client: client}
}

type chatRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	reply := h.Client.Generate(r.Context(), req.Prompt, req.Context)
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
