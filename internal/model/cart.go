// Package model はドメインモデルを定義する。
package model

// CartItem はカート内の1冊分のエントリを表す。
// IDは書籍IDであり、カート内で一意。Quantityは常に1以上。
type CartItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// CartItemFromBook は書籍詳細からカートエントリを組み立てる。
// 欠落フィールドは既定値で補完される。Quantityは呼び出し側が設定する。
func CartItemFromBook(b *Book) CartItem {
	return CartItem{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.AuthorName(),
		Category: b.CategoryName(),
		Image:    b.CoverImage,
	}
}
