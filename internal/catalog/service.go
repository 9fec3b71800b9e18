// Package catalog は書籍カタログの閲覧機能を提供する。
// 一覧・詳細・おすすめ・カテゴリ・著者の取得と表示用の整形を含む。
package catalog

import (
	"context"
	"log/slog"

	"github.com/hitoshi/booky/internal/api"
	"github.com/hitoshi/booky/internal/model"
	"github.com/hitoshi/booky/internal/security"
)

// BookAPI はカタログ取得に必要なAPI呼び出しのインターフェースを定義する。
type BookAPI interface {
	ListBooks(ctx context.Context, page, limit, categoryID int) (*api.BookPage, error)
	GetBook(ctx context.Context, bookID int) (*model.Book, error)
	Recommend(ctx context.Context) ([]model.Book, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
}

// Service は書籍カタログの閲覧処理を提供する。
type Service struct {
	api       BookAPI
	sanitizer security.Sanitizer
	logger    *slog.Logger
}

// NewService はService の新しいインスタンスを生成する。
func NewService(bookAPI BookAPI, sanitizer security.Sanitizer, logger *slog.Logger) *Service {
	return &Service{
		api:       bookAPI,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// Browse は書籍一覧をページングで取得する。
// minRatingが0より大きい場合、評価がその値未満の書籍をクライアント側で除外する
// （除外してもページングのtotalはAPIの値のまま返す）。
func (s *Service) Browse(ctx context.Context, page, limit, categoryID int, minRating float64) (*api.BookPage, error) {
	if page < 1 {
		page = 1
	}

	result, err := s.api.ListBooks(ctx, page, limit, categoryID)
	if err != nil {
		return nil, err
	}

	if minRating > 0 {
		filtered := make([]model.Book, 0, len(result.Books))
		for _, b := range result.Books {
			if b.Rating >= minRating {
				filtered = append(filtered, b)
			}
		}
		result.Books = filtered
	}

	for i := range result.Books {
		result.Books[i].Description = s.sanitizer.Sanitize(result.Books[i].Description)
	}

	return result, nil
}

// Detail は書籍の詳細を取得する。説明文はサニタイズ済みで返す。
func (s *Service) Detail(ctx context.Context, bookID int) (*model.Book, error) {
	if bookID <= 0 {
		return nil, model.NewBookNotFoundError(bookID)
	}

	book, err := s.api.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.Description = s.sanitizer.Sanitize(book.Description)
	return book, nil
}

// Recommend はおすすめ書籍の一覧を取得する。
func (s *Service) Recommend(ctx context.Context) ([]model.Book, error) {
	books, err := s.api.Recommend(ctx)
	if err != nil {
		return nil, err
	}

	for i := range books {
		books[i].Description = s.sanitizer.Sanitize(books[i].Description)
	}
	return books, nil
}

// Categories はカテゴリ一覧を取得する。
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.api.ListCategories(ctx)
}

// Authors は著者一覧を取得する。
func (s *Service) Authors(ctx context.Context) ([]model.Author, error) {
	return s.api.ListAuthors(ctx)
}
