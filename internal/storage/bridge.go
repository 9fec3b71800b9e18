package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/hitoshi/booky/internal/model"
	"github.com/hitoshi/booky/internal/state"
)

// 保存キー。スナップショット本体・トークンミラー・ユーザーミラー・
// チェックアウト選択はそれぞれ独立したキーに保存される。
const (
	keySnapshot = "state"
	keyToken    = "token"
	keyUser     = "user"
	keyCheckout = "checkout_items"
)

// Bridge はスナップショットと各ミラーキーの読み書きを担う永続化ブリッジ。
// 書き込み失敗はログに記録して握りつぶし、呼び出し元の状態遷移を
// ロールバックさせない。読み出し失敗は既定値へのフォールバックとして扱う。
type Bridge struct {
	kv     *KV
	logger *slog.Logger
}

// NewBridge はBridgeの新しいインスタンスを生成する。
func NewBridge(kv *KV, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{kv: kv, logger: logger}
}

// Hydrate は起動時にスナップショットを読み込む。
// データの欠損・破損時は警告ログを出して空のスナップショットを返す。
// 致命的エラーにはならない。
func (b *Bridge) Hydrate() state.Snapshot {
	raw, ok, err := b.kv.Get(keySnapshot)
	if err != nil {
		b.logger.Warn("状態の読み込みに失敗しました。空の状態で起動します",
			slog.String("error", err.Error()),
		)
		return state.Default()
	}
	if !ok {
		return state.Default()
	}

	var snapshot state.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		b.logger.Warn("状態のデシリアライズに失敗しました。空の状態で起動します",
			slog.String("error", err.Error()),
		)
		return state.Default()
	}

	return snapshot
}

// Persist はスナップショットをシリアライズして書き込む。
// 失敗はログに記録するのみで、呼び出し元へは一切伝搬しない。
func (b *Bridge) Persist(snapshot state.Snapshot) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		b.logger.Error("状態のシリアライズに失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := b.kv.Set(keySnapshot, string(raw)); err != nil {
		b.logger.Error("状態の書き込みに失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// Token はミラーキーから素のトークン文字列を読み出す。
// フルハイドレーションより前にHTTPクライアントのヘッダーを復元するための経路。
// 欠損・エラー時は空文字列を返す。
func (b *Bridge) Token() string {
	token, ok, err := b.kv.Get(keyToken)
	if err != nil {
		b.logger.Warn("トークンの読み込みに失敗しました",
			slog.String("error", err.Error()),
		)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// SaveSession はトークンとユーザーをそれぞれの専用キーへミラーする。
func (b *Bridge) SaveSession(token string, user *model.User) {
	if err := b.kv.Set(keyToken, token); err != nil {
		b.logger.Error("トークンの書き込みに失敗しました",
			slog.String("error", err.Error()),
		)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		b.logger.Error("ユーザー情報のシリアライズに失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := b.kv.Set(keyUser, string(raw)); err != nil {
		b.logger.Error("ユーザー情報の書き込みに失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// ClearSession はトークンとユーザーのミラーキーを削除する。冪等。
func (b *Bridge) ClearSession() {
	if err := b.kv.Delete(keyToken); err != nil {
		b.logger.Error("トークンの削除に失敗しました",
			slog.String("error", err.Error()),
		)
	}
	if err := b.kv.Delete(keyUser); err != nil {
		b.logger.Error("ユーザー情報の削除に失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// SaveCheckoutSelection はチェックアウト選択を一時キーへ保存する。
// カートページとチェックアウトページを橋渡しする揮発データであり、
// スナップショット本体には含まれない。
func (b *Bridge) SaveCheckoutSelection(items []model.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return b.kv.Set(keyCheckout, string(raw))
}

// LoadCheckoutSelection は保存済みのチェックアウト選択を読み出す。
// 欠損・破損時はnilを返す（エラーにはならない）。
func (b *Bridge) LoadCheckoutSelection() []model.CartItem {
	raw, ok, err := b.kv.Get(keyCheckout)
	if err != nil {
		b.logger.Warn("チェックアウト選択の読み込みに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !ok {
		return nil
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		b.logger.Warn("チェックアウト選択のデシリアライズに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return items
}

// ClearCheckoutSelection はチェックアウト選択の一時キーを削除する。
// 貸出リクエスト成功後に呼び出される。冪等。
func (b *Bridge) ClearCheckoutSelection() {
	if err := b.kv.Delete(keyCheckout); err != nil {
		b.logger.Error("チェックアウト選択の削除に失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// HasCheckoutSelection はチェックアウト選択キーが存在するかを返す。
func (b *Bridge) HasCheckoutSelection() bool {
	_, ok, err := b.kv.Get(keyCheckout)
	if err != nil {
		return false
	}
	return ok
}
