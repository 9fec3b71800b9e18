package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hitoshi/booky/internal/api"
	"github.com/hitoshi/booky/internal/model"
	"github.com/hitoshi/booky/internal/security"
)

type fakeBookAPI struct {
	page       *api.BookPage
	book       *model.Book
	recommend  []model.Book
	categories []model.Category
	authors    []model.Author
	err        error

	gotPage       int
	gotLimit      int
	gotCategoryID int
	gotBookID     int
}

func (f *fakeBookAPI) ListBooks(_ context.Context, page, limit, categoryID int) (*api.BookPage, error) {
	f.gotPage, f.gotLimit, f.gotCategoryID = page, limit, categoryID
	return f.page, f.err
}

func (f *fakeBookAPI) GetBook(_ context.Context, bookID int) (*model.Book, error) {
	f.gotBookID = bookID
	return f.book, f.err
}

func (f *fakeBookAPI) Recommend(_ context.Context) ([]model.Book, error) {
	return f.recommend, f.err
}

func (f *fakeBookAPI) ListCategories(_ context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

func (f *fakeBookAPI) ListAuthors(_ context.Context) ([]model.Author, error) {
	return f.authors, f.err
}

func newTestService(fake *fakeBookAPI) *Service {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewService(fake, security.NewContentSanitizer(), logger)
}

func TestService_Browse_PassesPagingParameters(t *testing.T) {
	fake := &fakeBookAPI{page: &api.BookPage{Books: []model.Book{}, Total: 0}}
	s := newTestService(fake)

	if _, err := s.Browse(context.Background(), 3, 20, 2, 0); err != nil {
		t.Fatalf("Browse がエラーを返した: %v", err)
	}

	if fake.gotPage != 3 || fake.gotLimit != 20 || fake.gotCategoryID != 2 {
		t.Errorf("APIパラメータ = (%d, %d, %d), want (3, 20, 2)",
			fake.gotPage, fake.gotLimit, fake.gotCategoryID)
	}
}

func TestService_Browse_PageBelowOneDefaultsToOne(t *testing.T) {
	fake := &fakeBookAPI{page: &api.BookPage{Books: []model.Book{}}}
	s := newTestService(fake)

	if _, err := s.Browse(context.Background(), 0, 20, 0, 0); err != nil {
		t.Fatalf("Browse がエラーを返した: %v", err)
	}

	if fake.gotPage != 1 {
		t.Errorf("page = %d, want 1", fake.gotPage)
	}
}

func TestService_Browse_MinRatingFiltersClientSide(t *testing.T) {
	fake := &fakeBookAPI{page: &api.BookPage{
		Books: []model.Book{
			{ID: 1, Title: "Low", Rating: 2.5},
			{ID: 2, Title: "High", Rating: 4.5},
			{ID: 3, Title: "Edge", Rating: 4.0},
		},
		Total: 3,
	}}
	s := newTestService(fake)

	result, err := s.Browse(context.Background(), 1, 20, 0, 4.0)
	if err != nil {
		t.Fatalf("Browse がエラーを返した: %v", err)
	}

	if len(result.Books) != 2 {
		t.Fatalf("書籍数 = %d, want 2", len(result.Books))
	}
	if result.Books[0].ID != 2 || result.Books[1].ID != 3 {
		t.Errorf("フィルタ後のID = %d, %d, want 2, 3", result.Books[0].ID, result.Books[1].ID)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, フィルタ後もAPIの値を維持すべき", result.Total)
	}
}

func TestService_Detail_SanitizesDescription(t *testing.T) {
	fake := &fakeBookAPI{book: &model.Book{
		ID:          1,
		Title:       "Book A",
		Description: "<p>A tale of <script>alert('x')</script>two cities.</p>",
	}}
	s := newTestService(fake)

	book, err := s.Detail(context.Background(), 1)
	if err != nil {
		t.Fatalf("Detail がエラーを返した: %v", err)
	}

	if book.Description != "A tale of two cities." {
		t.Errorf("Description = %q, マークアップを除去すべき", book.Description)
	}
}

func TestService_Detail_InvalidID(t *testing.T) {
	fake := &fakeBookAPI{}
	s := newTestService(fake)

	_, err := s.Detail(context.Background(), 0)
	if err == nil {
		t.Fatal("無効なIDに対してエラーを返すべき")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeBookNotFound {
		t.Errorf("BOOK_NOT_FOUND を返すべき: %v", err)
	}
}

func TestService_Detail_DefaultNames(t *testing.T) {
	fake := &fakeBookAPI{book: &model.Book{ID: 1, Title: "Book A"}}
	s := newTestService(fake)

	book, err := s.Detail(context.Background(), 1)
	if err != nil {
		t.Fatalf("Detail がエラーを返した: %v", err)
	}

	if got := book.AuthorName(); got != "Unknown Author" {
		t.Errorf("AuthorName = %q, want Unknown Author", got)
	}
	if got := book.CategoryName(); got != "Uncategorized" {
		t.Errorf("CategoryName = %q, want Uncategorized", got)
	}
}

func TestService_Recommend_PropagatesError(t *testing.T) {
	fake := &fakeBookAPI{err: model.NewRequestFailedError(500, "")}
	s := newTestService(fake)

	if _, err := s.Recommend(context.Background()); err == nil {
		t.Fatal("APIエラーを伝播すべき")
	}
}

func TestService_Categories_ReturnsList(t *testing.T) {
	fake := &fakeBookAPI{categories: []model.Category{{ID: 1, Name: "Fiction"}}}
	s := newTestService(fake)

	categories, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories がエラーを返した: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Fiction" {
		t.Errorf("Categories = %+v, want Fiction 1件", categories)
	}
}
