// Package model はドメインモデルを定義する。
package model

// User はサービス利用ユーザーを表す。
// ログインレスポンスおよび /api/me から取得される。
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Profile は /api/me が返すプロフィール情報を表す。
type Profile struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// LoanStats はプロフィールに含まれる貸出統計を表す。
type LoanStats struct {
	Borrowed int `json:"borrowed"`
	Late     int `json:"late"`
	Returned int `json:"returned"`
	Total    int `json:"total"`
}
