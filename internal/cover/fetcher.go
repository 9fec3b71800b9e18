// Package cover は書籍表紙画像のローカル保存機能を提供する。
package cover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hitoshi/booky/internal/model"
)

// maxCoverSize は表紙画像の最大サイズ（5MB）。
const maxCoverSize = 5 * 1024 * 1024

// coverTimeout は表紙画像取得のタイムアウト。
const coverTimeout = 10 * time.Second

// SSRFValidator は取得前のURL検証と安全なクライアント生成のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// Fetcher は表紙画像の取得と保存の実装。
// 画像URLはAPIレスポンス由来の信頼できない値として扱い、
// SSRF検証を通過したURLのみ取得する。
type Fetcher struct {
	ssrfGuard SSRFValidator
	dir       string
	logger    *slog.Logger
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
// dirは保存先ディレクトリ（存在しない場合は保存時に作成される）。
func NewFetcher(ssrfGuard SSRFValidator, dir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		ssrfGuard: ssrfGuard,
		dir:       dir,
		logger:    logger,
	}
}

// Save は書籍の表紙画像をローカルに保存し、保存先パスを返す。
// 表紙URLがない場合・検証や取得に失敗した場合は空パスを返す（エラーは返さない）。
// 表紙はあくまで補助情報であり、取得失敗で操作全体を失敗させない。
func (f *Fetcher) Save(ctx context.Context, book *model.Book) string {
	if book == nil || book.CoverImage == "" {
		return ""
	}

	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(book.CoverImage); err != nil {
			f.logger.Warn("表紙取得: SSRFブロック",
				slog.String("url", book.CoverImage),
				slog.String("error", err.Error()),
			)
			return ""
		}
	}

	client := f.httpClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, book.CoverImage, nil)
	if err != nil {
		f.logger.Warn("表紙取得: リクエスト作成失敗",
			slog.String("url", book.CoverImage),
			slog.String("error", err.Error()),
		)
		return ""
	}
	req.Header.Set("User-Agent", "Booky/1.0 CLI")

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Warn("表紙取得: HTTPリクエスト失敗",
			slog.String("url", book.CoverImage),
			slog.String("error", err.Error()),
		)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("表紙取得: HTTPステータス異常",
			slog.String("url", book.CoverImage),
			slog.Int("status", resp.StatusCode),
		)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		f.logger.Warn("表紙取得: レスポンス読み取り失敗",
			slog.String("url", book.CoverImage),
			slog.String("error", err.Error()),
		)
		return ""
	}
	if int64(len(body)) > maxCoverSize {
		f.logger.Warn("表紙取得: サイズ超過",
			slog.String("url", book.CoverImage),
			slog.Int("size", len(body)),
		)
		return ""
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if !isImageMime(mimeType) {
		f.logger.Warn("表紙取得: 画像以外のContent-Type",
			slog.String("url", book.CoverImage),
			slog.String("content_type", mimeType),
		)
		return ""
	}

	path := filepath.Join(f.dir, fmt.Sprintf("book-%d%s", book.ID, extensionFor(mimeType)))
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.logger.Warn("表紙取得: 保存先ディレクトリ作成失敗",
			slog.String("dir", f.dir),
			slog.String("error", err.Error()),
		)
		return ""
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		f.logger.Warn("表紙取得: ファイル書き込み失敗",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return ""
	}

	return path
}

// httpClient はHTTPクライアントを取得する。
func (f *Fetcher) httpClient() *http.Client {
	if f.ssrfGuard != nil {
		return f.ssrfGuard.NewSafeClient(coverTimeout)
	}
	return &http.Client{Timeout: coverTimeout}
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// isImageMime はMIMEタイプが画像かどうかを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// extensionFor はMIMEタイプから保存用の拡張子を決定する。
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
