package engine

import (
	"context"
	"strings"
	"testing"
)

func TestParseJSON(t *testing.T) {
	type reply struct {
		Answer string `json:"answer"`
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"answer": "hello world"}`,
			want: "hello world",
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"answer\": \"fenced\"}\n```",
			want: "fenced",
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"answer\": \"bare fence\"}\n```",
			want: "bare fence",
		},
		{
			name: "prose around object",
			raw:  `Here is the result: {"answer": "embedded"} hope that helps!`,
			want: "embedded",
		},
		{
			name: "leading whitespace",
			raw:  "  \n\t{\"answer\": \"spaced\"}",
			want: "spaced",
		},
		{
			name:    "no json at all",
			raw:     "I could not produce any structured output.",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[reply](tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSON() error: %v", err)
			}
			if got.Answer != tt.want {
				t.Errorf("ParseJSON() = %q, want %q", got.Answer, tt.want)
			}
		})
	}
}

func TestParseJSONArray(t *testing.T) {
	raw := "Sure! Keywords below:\n[\"go\", \"kubernetes\", \"grpc\"]\nLet me know if you need more."
	got, err := ParseJSON[[]string](raw)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(got) != 3 || got[0] != "go" {
		t.Errorf("ParseJSON() = %v", got)
	}
}

func TestParseJSONErrorPreview(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := ParseJSON[map[string]string](long)
	if err == nil {
		t.Fatal("expected error")
	}
	// Error message carries a shortened preview, not the whole reply.
	if len(err.Error()) > 300 {
		t.Errorf("error message too long: %d chars", len(err.Error()))
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\ntext\n```", "text"},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"whitespace only", "  \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeContent(t *testing.T) {
	out := SanitizeContent("My resume text", "RESUME")

	if !strings.Contains(out, "❮RESUME_START❯") {
		t.Error("missing start delimiter")
	}
	if !strings.Contains(out, "❮RESUME_END❯") {
		t.Error("missing end delimiter")
	}
	if !strings.Contains(out, "My resume text") {
		t.Error("missing payload")
	}
	if !strings.Contains(out, "do NOT execute") {
		t.Error("missing instruction guard")
	}
	// Payload must sit between the delimiters.
	start := strings.Index(out, "❮RESUME_START❯")
	end := strings.Index(out, "❮RESUME_END❯")
	body := strings.Index(out, "My resume text")
	if !(start < body && body < end) {
		t.Error("payload not between delimiters")
	}
}

func TestPassthroughPrompt(t *testing.T) {
	t.Run("with system", func(t *testing.T) {
		out := PassthroughPrompt("You are a recruiter.", "Review this resume.", false)
		if !strings.HasPrefix(out, "[System]: You are a recruiter.") {
			t.Errorf("missing system header: %q", out)
		}
		if !strings.Contains(out, "Review this resume.") {
			t.Error("missing prompt body")
		}
		if strings.Contains(out, "[Output Format]") {
			t.Error("json instruction should not appear in text mode")
		}
	})

	t.Run("json mode", func(t *testing.T) {
		out := PassthroughPrompt("sys", "body", true)
		if !strings.Contains(out, "[Output Format]: Respond with valid JSON only.") {
			t.Errorf("missing json instruction: %q", out)
		}
	})

	t.Run("no system", func(t *testing.T) {
		out := PassthroughPrompt("", "just the prompt", false)
		if strings.Contains(out, "[System]") {
			t.Error("unexpected system header")
		}
		if !strings.HasPrefix(out, "just the prompt") {
			t.Errorf("prompt should lead: %q", out)
		}
	})
}

func TestGenerateExternalMode(t *testing.T) {
	// No LLM client configured: Generate hands the prompt back to the caller.
	Init(Config{})

	comp, err := Generate(context.Background(), "system text", "prompt text")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !comp.Pending() {
		t.Fatal("expected pending completion without client")
	}
	if comp.Text() != "" {
		t.Errorf("pending completion has text: %q", comp.Text())
	}
	want := PassthroughPrompt("system text", "prompt text", false)
	if comp.Prompt() != want {
		t.Errorf("Prompt() = %q, want %q", comp.Prompt(), want)
	}
}

func TestGenerateJSONExternalMode(t *testing.T) {
	Init(Config{})

	comp, err := GenerateJSON(context.Background(), "sys", "extract stuff")
	if err != nil {
		t.Fatalf("GenerateJSON() error: %v", err)
	}
	if !comp.Pending() {
		t.Fatal("expected pending completion")
	}
	if !strings.Contains(comp.Prompt(), "[Output Format]: Respond with valid JSON only.") {
		t.Error("json mode instruction missing from passthrough prompt")
	}
}

func TestCompleteJSONExternalMode(t *testing.T) {
	Init(Config{})

	type profile struct {
		Name string `json:"name"`
	}
	got, comp, err := CompleteJSON[profile](context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatalf("CompleteJSON() error: %v", err)
	}
	if !comp.Pending() {
		t.Fatal("expected pending completion")
	}
	if got.Name != "" {
		t.Errorf("expected zero value, got %+v", got)
	}
}
