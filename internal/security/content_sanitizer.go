package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer はAPI由来テキストの端末表示向けサニタイズ機能の
// インターフェースを定義する。書籍説明文やレビューコメントの表示前に使用される。
type Sanitizer interface {
	// Sanitize はテキストから全てのマークアップを除去し、
	// HTMLエンティティを復号したプレーンテキストを返す。
	// 端末出力にタグは不要であり、script等の危険な内容も同時に除去される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はSanitizerの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はSanitizerの新しいインスタンスを生成する。
// StrictPolicyは全てのタグと属性を除去する。端末表示にはテキストのみ残す。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストから全てのマークアップを除去しプレーンテキストを返す。
// bluemondayはテキストをエスケープ済みで返すため、端末表示用に
// エンティティを復号してから余分な空白を詰める。
func (s *contentSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	decoded := html.UnescapeString(stripped)
	return strings.TrimSpace(decoded)
}
