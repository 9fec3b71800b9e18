// Package model はドメインモデルを定義する。
package model

// Author は書籍の著者を表す。
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// Category は書籍のカテゴリを表す。
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Book はカタログ上の書籍を表す。
// APIレスポンスの欠落フィールドを許容するため、任意項目はポインタまたは
// ゼロ値デフォルトで保持する。
type Book struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ISBN            string    `json:"isbn,omitempty"`
	PublishedYear   int       `json:"publishedYear,omitempty"`
	CoverImage      string    `json:"coverImage,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"reviewCount"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	BorrowCount     int       `json:"borrowCount"`
	AuthorID        int       `json:"authorId,omitempty"`
	CategoryID      int       `json:"categoryId,omitempty"`
	Author          *Author   `json:"author,omitempty"`
	Category        *Category `json:"category,omitempty"`
}

// AuthorName は著者名を返す。欠落時は既定値を返す。
func (b *Book) AuthorName() string {
	if b.Author == nil || b.Author.Name == "" {
		return "Unknown Author"
	}
	return b.Author.Name
}

// CategoryName はカテゴリ名を返す。欠落時は既定値を返す。
func (b *Book) CategoryName() string {
	if b.Category == nil || b.Category.Name == "" {
		return "Uncategorized"
	}
	return b.Category.Name
}
