package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestGenerateReturnsReplyText(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "gemini-2.5-flash-latest:generateContent") {
				t.Fatalf("unexpected path %s", req.URL.Path)
			}

			var payload generateRequest
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if payload.SystemInstruction == nil {
				t.Fatal("expected system instruction to be sent")
			}
			if !strings.Contains(payload.SystemInstruction.Parts[0].Text, "Inception") {
				t.Fatal("expected media context to be folded into the instruction")
			}

			body := `{"candidates":[{"content":{"parts":[{"text":"A mind-bending heist."}]}}]}`
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString(body)), Header: make(http.Header)}, nil
		}),
	}

	client := NewClient("test-key", "", httpc)
	reply := client.Generate(context.Background(), "What is this movie about?", "Inception (2010)")
	if reply != "A mind-bending heist." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGenerateFailureYieldsFallbackString(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(bytes.NewBufferString(`{}`)), Header: make(http.Header)}, nil
		}),
	}

	client := NewClient("test-key", "", httpc)
	reply := client.Generate(context.Background(), "hello", "")
	if reply != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", reply)
	}
}

func TestGenerateWithoutKeyYieldsFallbackString(t *testing.T) {
	client := NewClient("", "", nil)
	if reply := client.Generate(context.Background(), "hello", ""); reply != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", reply)
	}
}

func TestGenerateEmptyCandidatesYieldsEmptyReplyText(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString(`{"candidates":[]}`)), Header: make(http.Header)}, nil
		}),
	}

	client := NewClient("test-key", "", httpc)
	if reply := client.Generate(context.Background(), "hello", ""); reply != emptyReply {
		t.Fatalf("expected empty-reply text, got %q", reply)
	}
}
