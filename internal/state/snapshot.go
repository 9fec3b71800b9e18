// Package state はセッションとカートを合成した状態コンテナを提供する。
// 状態遷移は純粋なデータ操作であり失敗しない。遷移のたびに購読者へ同期通知し、
// その後に永続化ブリッジへスナップショットを渡す。
package state

import "github.com/hitoshi/booky/internal/model"

// AuthState は認証状態を表す。
// TokenとUserは必ず同時に設定・解除される。片方のみの状態は存在しない。
type AuthState struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// LoggedIn は認証済みかどうかを返す。
func (a AuthState) LoggedIn() bool {
	return a.Token != "" && a.User != nil
}

// CartState はカート状態を表す。
// Itemsは挿入順を保持し、書籍IDで一意。
// OwnerIDはカートの所有者（0はゲスト）。別ユーザーのログイン時に
// カートを引き継がないための識別子。
type CartState struct {
	OwnerID int              `json:"ownerId"`
	Items   []model.CartItem `json:"items"`
}

// TotalQuantity はカート内の合計冊数を返す。
func (c CartState) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Find は書籍IDでカートエントリを検索する。見つからない場合はnilを返す。
func (c CartState) Find(bookID int) *model.CartItem {
	for i := range c.Items {
		if c.Items[i].ID == bookID {
			return &c.Items[i]
		}
	}
	return nil
}

// Snapshot はセッションとカートを合成した不変の状態値。
// 永続化の単位であり、Root State Containerのみが所有する。
type Snapshot struct {
	Auth AuthState `json:"auth"`
	Cart CartState `json:"cart"`
}

// Default は初期状態の空スナップショットを返す。
func Default() Snapshot {
	return Snapshot{}
}

// Clone はスナップショットのディープコピーを返す。
// 呼び出し側の変更が内部状態へ波及しないことを保証する。
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Auth.User != nil {
		u := *s.Auth.User
		out.Auth.User = &u
	}
	if s.Cart.Items != nil {
		items := make([]model.CartItem, len(s.Cart.Items))
		copy(items, s.Cart.Items)
		out.Cart.Items = items
	}
	return out
}
