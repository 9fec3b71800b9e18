package security

import "testing"

func TestContentSanitizer_StripsAllTags(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "段落タグを除去しテキストを残す",
			input: "<p>A story of adventure.</p>",
			want:  "A story of adventure.",
		},
		{
			name:  "scriptタグと内容を除去する",
			input: "Great book<script>alert('x')</script>",
			want:  "Great book",
		},
		{
			name:  "強調タグを除去する",
			input: "<strong>Must</strong> read",
			want:  "Must read",
		},
		{
			name:  "imgタグを除去する",
			input: `before<img src="https://example.com/x.png">after`,
			want:  "beforeafter",
		},
		{
			name:  "onイベント属性ごと除去する",
			input: `<a href="https://example.com" onclick="evil()">link text</a>`,
			want:  "link text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContentSanitizer_UnescapesEntities(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize("Pride &amp; Prejudice")
	if got != "Pride & Prejudice" {
		t.Errorf("Sanitize = %q, エンティティを復号すべき", got)
	}
}

func TestContentSanitizer_EmptyInput(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("空入力に対して空文字列を返すべき: %q", got)
	}
}

func TestContentSanitizer_PlainTextPassesThrough(t *testing.T) {
	s := NewContentSanitizer()

	input := "A quiet meditation on time and memory."
	if got := s.Sanitize(input); got != input {
		t.Errorf("プレーンテキストは変更されないべき: %q", got)
	}
}

func TestContentSanitizer_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	once := s.Sanitize("<p>Pride &amp; Prejudice</p>")
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("冪等であるべき: 1回目=%q 2回目=%q", once, twice)
	}
}

func TestContentSanitizer_TrimsSurroundingWhitespace(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize("  <p>text</p>  ")
	if got != "text" {
		t.Errorf("前後の空白を詰めるべき: %q", got)
	}
}
