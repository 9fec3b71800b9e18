// Package model はドメインモデルを定義する。
package model

// ReviewUser はレビューに付随する投稿者情報を表す。
type ReviewUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Review は書籍へのレビューを表す。
// APIは評価値を star フィールドで返す。
type Review struct {
	ID        int         `json:"id"`
	BookID    int         `json:"bookId"`
	UserID    int         `json:"userId"`
	Star      int         `json:"star"`
	Comment   string      `json:"comment"`
	CreatedAt string      `json:"createdAt"`
	User      *ReviewUser `json:"user,omitempty"`
}

// UserName は投稿者名を返す。欠落時は既定値を返す。
func (r *Review) UserName() string {
	if r.User == nil || r.User.Name == "" {
		return "Anonymous"
	}
	return r.User.Name
}
