package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGeminiGenerate(t *testing.T) {
	var captured geminiRequest
	gen, err := NewGeminiGenerator(GeminiOptions{
		APIKey: "test-key",
		HTTPClient: fakeClient(func(req *http.Request) (*http.Response, error) {
			if got := req.Header.Get("x-goog-api-key"); got != "test-key" {
				t.Fatalf("api key header = %q", got)
			}
			if !strings.Contains(req.URL.Path, ":generateContent") {
				t.Fatalf("unexpected path %q", req.URL.Path)
			}
			if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			return jsonResponse(200, `{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`), nil
		}),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}

	text, err := gen.Generate(context.Background(), "say hi", "be brief")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("text = %q", text)
	}
	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction not forwarded: %+v", captured.SystemInstruction)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Parts[0].Text != "say hi" {
		t.Fatalf("contents = %+v", captured.Contents)
	}
}

func TestGeminiGenerateStatusError(t *testing.T) {
	gen, err := NewGeminiGenerator(GeminiOptions{
		APIKey: "test-key",
		HTTPClient: fakeClient(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(429, `{"error":"rate limited"}`), nil
		}),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}

	_, err = gen.Generate(context.Background(), "say hi", "")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if httpErr.Status != 429 || !strings.Contains(httpErr.Body, "rate limited") {
		t.Fatalf("httpErr = %+v", httpErr)
	}
	if IsBadRequest(err) {
		t.Fatal("429 should not be classified as a bad request")
	}
}

func TestGeminiGenerateEmptyCandidate(t *testing.T) {
	gen, err := NewGeminiGenerator(GeminiOptions{
		APIKey: "test-key",
		HTTPClient: fakeClient(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"candidates":[]}`), nil
		}),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}

	if _, err := gen.Generate(context.Background(), "say hi", ""); err == nil {
		t.Fatal("empty candidate list should be an error")
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(GeminiOptions{}); err == nil {
		t.Fatal("missing api key should be rejected")
	}
}
