package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hitoshi/booky/internal/model"
)

// AuthResult はログイン・登録APIが返す認証情報。
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// BookPage はページング付き書籍一覧のレスポンス。
type BookPage struct {
	Books []model.Book `json:"books"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// ReviewPage はページング付きレビュー一覧のレスポンス。
type ReviewPage struct {
	Reviews []model.Review `json:"reviews"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// Login はメールアドレスとパスワードで認証しトークンとユーザーを取得する。
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register は新規ユーザーを登録しトークンとユーザーを取得する。
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me は認証中ユーザーのプロフィールを取得する。
func (c *Client) Me(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListBooks は書籍一覧をページングで取得する。
// categoryIDが0の場合はカテゴリで絞り込まない。
func (c *Client) ListBooks(ctx context.Context, page, limit, categoryID int) (*BookPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	if categoryID > 0 {
		q.Set("categoryId", fmt.Sprintf("%d", categoryID))
	}

	var result BookPage
	if err := c.do(ctx, http.MethodGet, "/api/books?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	if result.Books == nil {
		result.Books = []model.Book{}
	}
	return &result, nil
}

// GetBook は書籍の詳細を取得する。
func (c *Client) GetBook(ctx context.Context, bookID int) (*model.Book, error) {
	var book model.Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", bookID), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Recommend はおすすめ書籍の一覧を取得する。
func (c *Client) Recommend(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := c.do(ctx, http.MethodGet, "/api/books/recommend", nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// ListCategories はカテゴリ一覧を取得する。
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// ListAuthors は著者一覧を取得する。
func (c *Client) ListAuthors(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	if err := c.do(ctx, http.MethodGet, "/api/authors", nil, &authors); err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []model.Author{}
	}
	return authors, nil
}

// ListBookReviews は指定書籍のレビュー一覧をページングで取得する。
func (c *Client) ListBookReviews(ctx context.Context, bookID, page, limit int) (*ReviewPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))

	var result ReviewPage
	path := fmt.Sprintf("/api/reviews/book/%d?%s", bookID, q.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if result.Reviews == nil {
		result.Reviews = []model.Review{}
	}
	return &result, nil
}

// CreateReview は書籍にレビューを投稿する。
func (c *Client) CreateReview(ctx context.Context, bookID, star int, comment string) (*model.Review, error) {
	body := map[string]any{"bookId": bookID, "star": star, "comment": comment}
	var review model.Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview は自分のレビューを削除する。
func (c *Client) DeleteReview(ctx context.Context, reviewID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), nil, nil)
}

// CreateLoan は書籍1冊の貸出を申請する。
func (c *Client) CreateLoan(ctx context.Context, bookID, days int) (*model.Loan, error) {
	body := map[string]int{"bookId": bookID, "days": days}
	var loan model.Loan
	if err := c.do(ctx, http.MethodPost, "/api/loans", body, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// MyLoans は自分の貸出一覧を取得する。
func (c *Client) MyLoans(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	if err := c.do(ctx, http.MethodGet, "/api/loans/my", nil, &loans); err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	return loans, nil
}

// ReturnLoan は貸出中の書籍を返却する。
func (c *Client) ReturnLoan(ctx context.Context, loanID int) (*model.Loan, error) {
	var loan model.Loan
	path := fmt.Sprintf("/api/loans/%d/return", loanID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}
