// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, network, storage
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeLoginRequired     = "LOGIN_REQUIRED"
	ErrCodeRequestFailed     = "REQUEST_FAILED"
	ErrCodeInvalidRating     = "INVALID_RATING"
	ErrCodeEmptySelection    = "EMPTY_SELECTION"
	ErrCodeNotInCart         = "NOT_IN_CART"
	ErrCodeInvalidBorrowDate = "INVALID_BORROW_DATE"
	ErrCodeInvalidDuration   = "INVALID_DURATION"
	ErrCodeAgreementRequired = "AGREEMENT_REQUIRED"
	ErrCodeBookNotFound      = "BOOK_NOT_FOUND"
	ErrCodeReviewNotFound    = "REVIEW_NOT_FOUND"
	ErrCodeInvalidInput      = "INVALID_INPUT"
)

// NewLoginRequiredError はログインが必要な操作への未認証アクセスエラーを生成する。
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginRequired,
		Message:  "この操作にはログインが必要です。",
		Category: "auth",
		Action:   "booky login でログインしてください。",
	}
}

// NewRequestFailedError はAPIリクエスト失敗エラーを生成する。
// messageが空の場合はHTTPステータスから汎用メッセージを組み立てる。
func NewRequestFailedError(statusCode int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("APIがステータス %d を返しました", statusCode)
	}
	return &APIError{
		Code:     ErrCodeRequestFailed,
		Message:  message,
		Category: "network",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInvalidRatingError は評価値が範囲外の場合のエラーを生成する。
func NewInvalidRatingError(star int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  fmt.Sprintf("無効な評価値です: %d", star),
		Category: "validation",
		Action:   "評価は1から5の整数で指定してください。",
	}
}

// NewEmptySelectionError は貸出対象が未選択の場合のエラーを生成する。
func NewEmptySelectionError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptySelection,
		Message:  "貸出対象の書籍が選択されていません。",
		Category: "validation",
		Action:   "booky cart borrow --ids で貸出する書籍を選択してください。",
	}
}

// NewNotInCartError はカートに存在しない書籍を選択した場合のエラーを生成する。
func NewNotInCartError(bookID int) *APIError {
	return &APIError{
		Code:     ErrCodeNotInCart,
		Message:  fmt.Sprintf("書籍ID %d はカートに入っていません。", bookID),
		Category: "validation",
		Action:   "booky cart でカートの内容を確認してください。",
	}
}

// NewInvalidBorrowDateError は貸出日が無効な場合のエラーを生成する。
func NewInvalidBorrowDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBorrowDate,
		Message:  fmt.Sprintf("無効な貸出日です: %s", date),
		Category: "validation",
		Action:   "貸出日は YYYY-MM-DD 形式で指定してください。",
	}
}

// NewInvalidDurationError は貸出期間が無効な場合のエラーを生成する。
func NewInvalidDurationError(days int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDuration,
		Message:  fmt.Sprintf("無効な貸出期間です: %d日", days),
		Category: "validation",
		Action:   "貸出期間は 3、5、10 日のいずれかを指定してください。",
	}
}

// NewAgreementRequiredError は同意フラグが未指定の場合のエラーを生成する。
func NewAgreementRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAgreementRequired,
		Message:  "返却期日と貸出ポリシーへの同意が必要です。",
		Category: "validation",
		Action:   "--agree と --accept の両方を指定してください。",
	}
}

// NewBookNotFoundError は書籍未検出エラーを生成する。
func NewBookNotFoundError(bookID int) *APIError {
	return &APIError{
		Code:     ErrCodeBookNotFound,
		Message:  fmt.Sprintf("指定された書籍が見つかりません: %d", bookID),
		Category: "validation",
		Action:   "書籍IDを確認してください。",
	}
}

// NewReviewNotFoundError はレビュー未検出エラーを生成する。
func NewReviewNotFoundError(reviewID int) *APIError {
	return &APIError{
		Code:     ErrCodeReviewNotFound,
		Message:  fmt.Sprintf("指定されたレビューが見つかりません: %d", reviewID),
		Category: "validation",
		Action:   "booky reviews でレビューIDを確認してください。",
	}
}

// NewInvalidInputError は入力値が無効な場合の汎用エラーを生成する。
func NewInvalidInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("無効な入力です: %s", reason),
		Category: "validation",
		Action:   "booky help で各コマンドの使い方を確認してください。",
	}
}
