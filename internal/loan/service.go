// Package loan は貸出フローを提供する。
// カートからの貸出対象選択、貸出確定、貸出一覧、返却を含む。
package loan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/booky/internal/model"
	"github.com/hitoshi/booky/internal/state"
)

// allowedDurations は許可される貸出期間（日数）。
var allowedDurations = []int{3, 5, 10}

// LoanAPI は貸出操作に必要なAPI呼び出しのインターフェースを定義する。
type LoanAPI interface {
	CreateLoan(ctx context.Context, bookID, days int) (*model.Loan, error)
	MyLoans(ctx context.Context) ([]model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int) (*model.Loan, error)
}

// CartStore はカート状態の読み取りとクリアのインターフェースを定義する。
type CartStore interface {
	Snapshot() state.Snapshot
	ClearCart()
}

// SelectionStorage は貸出対象選択の一時保存インターフェースを定義する。
// 選択は貸出確定をまたぐ一時データであり、スナップショット本体には含まれない。
type SelectionStorage interface {
	SaveCheckoutSelection(items []model.CartItem) error
	LoadCheckoutSelection() []model.CartItem
	ClearCheckoutSelection()
	HasCheckoutSelection() bool
}

// CheckoutResult は貸出確定の結果を表す。
type CheckoutResult struct {
	Loans      []model.Loan
	BorrowDate time.Time
	ReturnDate time.Time
}

// Service は貸出フローの操作を提供する。
type Service struct {
	api     LoanAPI
	store   CartStore
	storage SelectionStorage
	logger  *slog.Logger
}

// NewService はService の新しいインスタンスを生成する。
func NewService(loanAPI LoanAPI, store CartStore, storage SelectionStorage, logger *slog.Logger) *Service {
	return &Service{
		api:     loanAPI,
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// Select は貸出対象の書籍をカートから選択し一時保存する。
// 選択は空であってはならず、全てカート内の書籍でなければならない。
// 保存される並びはカート内の並びに従う。
func (s *Service) Select(bookIDs []int) error {
	if len(bookIDs) == 0 {
		return model.NewEmptySelectionError()
	}

	cart := s.store.Snapshot().Cart
	for _, id := range bookIDs {
		if cart.Find(id) == nil {
			return model.NewNotInCartError(id)
		}
	}

	wanted := make(map[int]bool, len(bookIDs))
	for _, id := range bookIDs {
		wanted[id] = true
	}

	selected := make([]model.CartItem, 0, len(bookIDs))
	for _, item := range cart.Items {
		if wanted[item.ID] {
			selected = append(selected, item)
		}
	}

	if err := s.storage.SaveCheckoutSelection(selected); err != nil {
		return err
	}

	s.logger.Info("貸出対象を選択しました", slog.Int("count", len(selected)))
	return nil
}

// Checkout は選択済みの書籍の貸出を確定する。
// ログイン必須。貸出日はYYYY-MM-DD形式、貸出期間は3・5・10日のいずれか、
// 返却期日と貸出ポリシーの両方への同意が必要。
// 検証失敗はネットワークに到達する前に拒否される。
// 全ての貸出が成功した場合のみカートと選択をクリアする。
func (s *Service) Checkout(ctx context.Context, borrowDate string, days int, agreeDueDate, acceptPolicy bool) (*CheckoutResult, error) {
	if !s.store.Snapshot().Auth.LoggedIn() {
		return nil, model.NewLoginRequiredError()
	}

	selected := s.storage.LoadCheckoutSelection()
	if len(selected) == 0 {
		return nil, model.NewEmptySelectionError()
	}

	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(borrowDate))
	if err != nil {
		return nil, model.NewInvalidBorrowDateError(borrowDate)
	}

	if !isAllowedDuration(days) {
		return nil, model.NewInvalidDurationError(days)
	}

	if !agreeDueDate || !acceptPolicy {
		return nil, model.NewAgreementRequiredError()
	}

	loans := make([]model.Loan, 0, len(selected))
	for _, item := range selected {
		loan, err := s.api.CreateLoan(ctx, item.ID, days)
		if err != nil {
			s.logger.Error("貸出申請に失敗しました",
				slog.Int("book_id", item.ID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		loans = append(loans, *loan)
	}

	// 全件成功した場合のみカートと選択を片付ける
	s.store.ClearCart()
	s.storage.ClearCheckoutSelection()

	s.logger.Info("貸出を確定しました",
		slog.Int("count", len(loans)),
		slog.String("borrow_date", parsed.Format("2006-01-02")),
		slog.Int("days", days),
	)

	return &CheckoutResult{
		Loans:      loans,
		BorrowDate: parsed,
		ReturnDate: parsed.AddDate(0, 0, days),
	}, nil
}

// My は自分の貸出一覧を表示用に変換して返す。
// filterは all / active / returned / overdue のいずれか。空文字はall扱い。
func (s *Service) My(ctx context.Context, filter string) ([]model.BorrowedBook, error) {
	if !s.store.Snapshot().Auth.LoggedIn() {
		return nil, model.NewLoginRequiredError()
	}

	loans, err := s.api.MyLoans(ctx)
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		filter = "all"
	}

	borrowed := make([]model.BorrowedBook, 0, len(loans))
	for i := range loans {
		b := loans[i].ToBorrowedBook()
		if filter != "all" && !strings.EqualFold(b.Status, filter) {
			// activeフィルタは表示ステータスActiveに対応する
			continue
		}
		borrowed = append(borrowed, b)
	}

	return borrowed, nil
}

// Return は貸出中の書籍を返却する。ログイン必須。
func (s *Service) Return(ctx context.Context, loanID int) (*model.Loan, error) {
	if !s.store.Snapshot().Auth.LoggedIn() {
		return nil, model.NewLoginRequiredError()
	}
	if loanID <= 0 {
		return nil, model.NewInvalidInputError("貸出IDは正の整数で指定してください")
	}

	loan, err := s.api.ReturnLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("書籍を返却しました", slog.Int("loan_id", loanID))
	return loan, nil
}

// isAllowedDuration は貸出期間が許可リストに含まれるかを検証する。
func isAllowedDuration(days int) bool {
	for _, d := range allowedDurations {
		if days == d {
			return true
		}
	}
	return false
}
