// Package review は書籍レビューの閲覧・投稿・削除機能を提供する。
package review

import (
	"context"
	"log/slog"

	"github.com/hitoshi/booky/internal/api"
	"github.com/hitoshi/booky/internal/model"
	"github.com/hitoshi/booky/internal/security"
	"github.com/hitoshi/booky/internal/state"
)

// ReviewAPI はレビュー操作に必要なAPI呼び出しのインターフェースを定義する。
type ReviewAPI interface {
	ListBookReviews(ctx context.Context, bookID, page, limit int) (*api.ReviewPage, error)
	CreateReview(ctx context.Context, bookID, star int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID int) error
}

// SessionReader は現在のセッション状態の読み取りインターフェースを定義する。
type SessionReader interface {
	Snapshot() state.Snapshot
}

// Service は書籍レビューの操作を提供する。
// 投稿と削除はログイン済みの場合のみ許可され、
// 未認証の場合はネットワークに到達する前に拒否される。
type Service struct {
	api       ReviewAPI
	session   SessionReader
	sanitizer security.Sanitizer
	logger    *slog.Logger
}

// NewService はService の新しいインスタンスを生成する。
func NewService(reviewAPI ReviewAPI, session SessionReader, sanitizer security.Sanitizer, logger *slog.Logger) *Service {
	return &Service{
		api:       reviewAPI,
		session:   session,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// List は指定書籍のレビュー一覧をページングで取得する。
// コメントはサニタイズ済みで返す。
func (s *Service) List(ctx context.Context, bookID, page, limit int) (*api.ReviewPage, error) {
	if bookID <= 0 {
		return nil, model.NewBookNotFoundError(bookID)
	}
	if page < 1 {
		page = 1
	}

	result, err := s.api.ListBookReviews(ctx, bookID, page, limit)
	if err != nil {
		return nil, err
	}

	for i := range result.Reviews {
		result.Reviews[i].Comment = s.sanitizer.Sanitize(result.Reviews[i].Comment)
	}
	return result, nil
}

// Create は書籍にレビューを投稿する。
// ログイン必須。評価は1から5の整数のみ許可される。
func (s *Service) Create(ctx context.Context, bookID, star int, comment string) (*model.Review, error) {
	if !s.session.Snapshot().Auth.LoggedIn() {
		return nil, model.NewLoginRequiredError()
	}
	if bookID <= 0 {
		return nil, model.NewBookNotFoundError(bookID)
	}
	if star < 1 || star > 5 {
		return nil, model.NewInvalidRatingError(star)
	}

	review, err := s.api.CreateReview(ctx, bookID, star, comment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("レビューを投稿しました",
		slog.Int("book_id", bookID),
		slog.Int("star", star),
	)
	return review, nil
}

// Delete は自分のレビューを削除する。ログイン必須。
func (s *Service) Delete(ctx context.Context, reviewID int) error {
	if !s.session.Snapshot().Auth.LoggedIn() {
		return model.NewLoginRequiredError()
	}
	if reviewID <= 0 {
		return model.NewReviewNotFoundError(reviewID)
	}

	if err := s.api.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info("レビューを削除しました", slog.Int("review_id", reviewID))
	return nil
}
