// Package api はBooky REST APIのクライアントを提供する。
// 統一レスポンスエンベロープのデコードと認証ヘッダー管理を含む。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hitoshi/booky/internal/model"
)

// maxResponseBodySize はレスポンスボディの最大読み取りサイズ（10MB）。
const maxResponseBodySize = 10 * 1024 * 1024

// envelope はAPIの統一レスポンス形式。
// dataの内容はエンドポイントごとに異なるため遅延デコードする。
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client はBooky APIのクライアント。
// 認証トークンはセッション遷移からのみ設定・解除される。
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient はClient の新しいインスタンスを生成する。
// ratePerMinは1分あたりの最大リクエスト数を指定する。
func NewClient(baseURL string, timeout time.Duration, ratePerMin int, logger *slog.Logger) *Client {
	if ratePerMin <= 0 {
		ratePerMin = 120
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(ratePerMin)/60.0), ratePerMin),
		logger:     logger,
	}
}

// SetAuthToken は以降のリクエストに付与する認証トークンを設定する。
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearAuthToken は認証トークンを解除する。
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// authToken は現在の認証トークンを返す。未設定の場合は空文字。
func (c *Client) authToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do はAPIリクエストを実行しエンベロープのdataをoutにデコードする。
// outがnilの場合、dataは破棄される。
func (c *Client) do(ctx context.Context, method, path string, reqBody any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("レート制限の待機に失敗しました: %w", err)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("リクエストボディのエンコードに失敗しました: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", "Booky/1.0 CLI")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.authToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("APIリクエストを送信します",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("APIリクエストの実行に失敗しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return &model.APIError{
			Code:     model.ErrCodeRequestFailed,
			Message:  fmt.Sprintf("APIへの接続に失敗しました: %v", err),
			Category: "network",
			Action:   "BOOKY_API_BASE_URL とネットワーク接続を確認してください。",
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	// エンベロープのパース失敗は許容する（messageなしで扱う）
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("path", path),
			slog.String("request_id", requestID),
		)
		return model.NewRequestFailedError(resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("レスポンスデータのパースに失敗しました: %w", err)
		}
	}

	return nil
}
