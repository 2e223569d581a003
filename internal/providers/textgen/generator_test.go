package textgen

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractJSONFragment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"action":"search"}`, `{"action":"search"}`},
		{"fenced json", "```json\n{\"action\":\"search\"}\n```", `{"action":"search"}`},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Sure! {"action":"chat","params":{}} Hope that helps.`, `{"action":"chat","params":{}}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
		{"no json", "just words", "just words"},
		{"empty", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONFragment(tc.input); got != tc.want {
				t.Fatalf("ExtractJSONFragment(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsBadRequest(t *testing.T) {
	if !IsBadRequest(&HTTPError{Status: 400}) {
		t.Fatal("400 should be a bad request")
	}
	if !IsBadRequest(fmt.Errorf("wrapped: %w", &HTTPError{Status: 422})) {
		t.Fatal("wrapped 422 should be a bad request")
	}
	if IsBadRequest(&HTTPError{Status: 500}) {
		t.Fatal("500 is not a bad request")
	}
	if IsBadRequest(errors.New("plain error")) {
		t.Fatal("non-HTTP errors are not bad requests")
	}
}
