package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hitoshi/booky/internal/model"
)

// newFlagSet はサブコマンド用のFlagSetを生成する。
// エラーはハンドラー側で扱うためContinueOnErrorを使う。
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stdout)
	return fs
}

// runLogin はログインを実行する。
// パスワードは端末から非表示で読み取る（非TTYの場合は標準入力から1行読む）。
func (e *env) runLogin(ctx context.Context, args []string) error {
	fs := e.newFlagSet("login")
	email := fs.String("email", "", "メールアドレス")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return model.NewInvalidInputError("--email を指定してください")
	}

	password, err := promptPassword(e.stdout, e.stdin, "パスワード: ")
	if err != nil {
		return err
	}

	result, err := e.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if result.Token == "" || result.User == nil {
		return model.NewRequestFailedError(0, "ログインレスポンスが不完全です")
	}

	e.store.EstablishCredentials(result.Token, *result.User)
	fmt.Fprintf(e.stdout, "ログインしました: %s <%s>\n", result.User.Name, result.User.Email)
	return nil
}

// runLogout はログアウトを実行する。未ログインでも成功する。
func (e *env) runLogout(args []string) error {
	fs := e.newFlagSet("logout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e.store.ClearCredentials()
	fmt.Fprintln(e.stdout, "ログアウトしました")
	return nil
}

// runRegister は新規ユーザー登録を実行する。
func (e *env) runRegister(ctx context.Context, args []string) error {
	fs := e.newFlagSet("register")
	name := fs.String("name", "", "表示名")
	email := fs.String("email", "", "メールアドレス")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		return model.NewInvalidInputError("--name と --email を指定してください")
	}

	password, err := promptPassword(e.stdout, e.stdin, "パスワード: ")
	if err != nil {
		return err
	}

	result, err := e.client.Register(ctx, *name, *email, password)
	if err != nil {
		return err
	}
	if result.Token == "" || result.User == nil {
		return model.NewRequestFailedError(0, "登録レスポンスが不完全です")
	}

	e.store.EstablishCredentials(result.Token, *result.User)
	fmt.Fprintf(e.stdout, "登録しました: %s <%s>\n", result.User.Name, result.User.Email)
	return nil
}

// runMe はプロフィールを表示する。
func (e *env) runMe(ctx context.Context, args []string) error {
	fs := e.newFlagSet("me")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !e.store.Snapshot().Auth.LoggedIn() {
		return model.NewLoginRequiredError()
	}

	profile, err := e.client.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "ID:     %d\n", profile.ID)
	fmt.Fprintf(e.stdout, "名前:   %s\n", profile.Name)
	fmt.Fprintf(e.stdout, "メール: %s\n", profile.Email)
	if profile.Role != "" {
		fmt.Fprintf(e.stdout, "権限:   %s\n", profile.Role)
	}
	return nil
}

// runBooks は書籍一覧を表示する。
func (e *env) runBooks(ctx context.Context, args []string) error {
	fs := e.newFlagSet("books")
	page := fs.Int("page", 1, "ページ番号")
	categoryID := fs.Int("category", 0, "カテゴリID（0は全カテゴリ）")
	minRating := fs.Float64("min-rating", 0, "最小評価（0は無効）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := e.catalog.Browse(ctx, *page, e.cfg.PageLimit, *categoryID, *minRating)
	if err != nil {
		return err
	}

	if len(result.Books) == 0 {
		fmt.Fprintln(e.stdout, "書籍が見つかりませんでした")
		return nil
	}

	for i := range result.Books {
		printBookLine(e.stdout, &result.Books[i])
	}
	fmt.Fprintf(e.stdout, "-- page %d (全%d件) --\n", *page, result.Total)
	return nil
}

// runBook は書籍詳細を表示する。
func (e *env) runBook(ctx context.Context, args []string) error {
	fs := e.newFlagSet("book")
	id := fs.Int("id", 0, "書籍ID")
	saveCover := fs.Bool("save-cover", false, "表紙画像をローカルに保存する")
	if err := fs.Parse(args); err != nil {
		return err
	}

	book, err := e.catalog.Detail(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s\n", book.Title)
	fmt.Fprintf(e.stdout, "著者:     %s\n", book.AuthorName())
	fmt.Fprintf(e.stdout, "カテゴリ: %s\n", book.CategoryName())
	fmt.Fprintf(e.stdout, "評価:     %.1f (%d件)\n", book.Rating, book.ReviewCount)
	fmt.Fprintf(e.stdout, "在庫:     %d/%d\n", book.AvailableCopies, book.TotalCopies)
	if book.PublishedYear > 0 {
		fmt.Fprintf(e.stdout, "出版年:   %d\n", book.PublishedYear)
	}
	if book.ISBN != "" {
		fmt.Fprintf(e.stdout, "ISBN:     %s\n", book.ISBN)
	}
	if book.Description != "" {
		fmt.Fprintf(e.stdout, "\n%s\n", book.Description)
	}

	if *saveCover {
		// 表紙取得の失敗は詳細表示を失敗させない
		if path := e.covers.Save(ctx, book); path != "" {
			fmt.Fprintf(e.stdout, "\n表紙を保存しました: %s\n", path)
		} else {
			fmt.Fprintln(e.stdout, "\n表紙は保存できませんでした")
		}
	}
	return nil
}

// runRecommend はおすすめ書籍を表示する。
func (e *env) runRecommend(ctx context.Context, args []string) error {
	fs := e.newFlagSet("recommend")
	if err := fs.Parse(args); err != nil {
		return err
	}

	books, err := e.catalog.Recommend(ctx)
	if err != nil {
		return err
	}

	if len(books) == 0 {
		fmt.Fprintln(e.stdout, "おすすめ書籍はありません")
		return nil
	}
	for i := range books {
		printBookLine(e.stdout, &books[i])
	}
	return nil
}

// runCategories はカテゴリ一覧を表示する。
func (e *env) runCategories(ctx context.Context, args []string) error {
	fs := e.newFlagSet("categories")
	if err := fs.Parse(args); err != nil {
		return err
	}

	categories, err := e.catalog.Categories(ctx)
	if err != nil {
		return err
	}

	for _, c := range categories {
		fmt.Fprintf(e.stdout, "[%d] %s\n", c.ID, c.Name)
	}
	return nil
}

// runAuthors は著者一覧を表示する。
func (e *env) runAuthors(ctx context.Context, args []string) error {
	fs := e.newFlagSet("authors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	authors, err := e.catalog.Authors(ctx)
	if err != nil {
		return err
	}

	for _, a := range authors {
		fmt.Fprintf(e.stdout, "[%d] %s\n", a.ID, a.Name)
	}
	return nil
}

// runReviews はレビュー一覧を表示する。
func (e *env) runReviews(ctx context.Context, args []string) error {
	fs := e.newFlagSet("reviews")
	bookID := fs.Int("book", 0, "書籍ID")
	page := fs.Int("page", 1, "ページ番号")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := e.reviews.List(ctx, *bookID, *page, e.cfg.PageLimit)
	if err != nil {
		return err
	}

	if len(result.Reviews) == 0 {
		fmt.Fprintln(e.stdout, "レビューはまだありません")
		return nil
	}

	for i := range result.Reviews {
		r := &result.Reviews[i]
		fmt.Fprintf(e.stdout, "[%d] %s %s - %s\n", r.ID, stars(r.Star), r.UserName(), r.Comment)
	}
	fmt.Fprintf(e.stdout, "-- page %d (全%d件) --\n", *page, result.Total)
	return nil
}

// runReview はレビューの投稿または削除を実行する。
func (e *env) runReview(ctx context.Context, args []string) error {
	fs := e.newFlagSet("review")
	bookID := fs.Int("book", 0, "書籍ID")
	star := fs.Int("star", 0, "評価（1から5）")
	comment := fs.String("comment", "", "コメント")
	deleteID := fs.Int("delete", 0, "削除するレビューID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *deleteID > 0 {
		if err := e.reviews.Delete(ctx, *deleteID); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "レビュー %d を削除しました\n", *deleteID)
		return nil
	}

	review, err := e.reviews.Create(ctx, *bookID, *star, *comment)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "レビューを投稿しました: [%d] %s\n", review.ID, stars(review.Star))
	return nil
}

// runCart はカート操作を実行する。
// 引数なしで内容表示。add / remove / clear / borrow のサブアクションを持つ。
func (e *env) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return e.printCart()
	}

	action, rest := args[0], args[1:]
	switch action {
	case "add":
		fs := e.newFlagSet("cart add")
		id := fs.Int("id", 0, "書籍ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		// カートエントリには表示用の書籍情報が必要なため詳細を取得する
		book, err := e.catalog.Detail(ctx, *id)
		if err != nil {
			return err
		}
		e.store.AddItem(model.CartItemFromBook(book))
		fmt.Fprintf(e.stdout, "カートに追加しました: %s\n", book.Title)
		return nil

	case "remove":
		fs := e.newFlagSet("cart remove")
		id := fs.Int("id", 0, "書籍ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		e.store.RemoveItem(*id)
		fmt.Fprintf(e.stdout, "カートから削除しました: %d\n", *id)
		return nil

	case "clear":
		e.store.ClearCart()
		fmt.Fprintln(e.stdout, "カートを空にしました")
		return nil

	case "borrow":
		fs := e.newFlagSet("cart borrow")
		ids := fs.String("ids", "", "貸出する書籍ID（カンマ区切り）")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		bookIDs, err := parseIDList(*ids)
		if err != nil {
			return err
		}
		if err := e.loans.Select(bookIDs); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%d冊を貸出対象に選択しました。booky checkout で確定してください\n", len(bookIDs))
		return nil

	default:
		return model.NewInvalidInputError(fmt.Sprintf("不明なカート操作です: %s", action))
	}
}

// printCart はカートの内容を表示する。
func (e *env) printCart() error {
	cart := e.store.Snapshot().Cart
	if len(cart.Items) == 0 {
		fmt.Fprintln(e.stdout, "カートは空です")
		return nil
	}

	for _, item := range cart.Items {
		fmt.Fprintf(e.stdout, "[%d] %s / %s (%s) x%d\n",
			item.ID, item.Title, item.Author, item.Category, item.Quantity)
	}
	fmt.Fprintf(e.stdout, "-- 合計 %d冊 --\n", cart.TotalQuantity())
	return nil
}

// runCheckout は選択済みの書籍の貸出を確定する。
func (e *env) runCheckout(ctx context.Context, args []string) error {
	fs := e.newFlagSet("checkout")
	date := fs.String("date", "", "貸出日（YYYY-MM-DD）")
	days := fs.Int("days", 0, "貸出期間（3、5、10日）")
	agree := fs.Bool("agree", false, "返却期日に同意する")
	accept := fs.Bool("accept", false, "貸出ポリシーに同意する")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := e.loans.Checkout(ctx, *date, *days, *agree, *accept)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%d冊の貸出を確定しました\n", len(result.Loans))
	fmt.Fprintf(e.stdout, "貸出日: %s\n", result.BorrowDate.Format("2006-01-02"))
	fmt.Fprintf(e.stdout, "返却日: %s\n", result.ReturnDate.Format("2006-01-02"))
	return nil
}

// runLoans は自分の貸出一覧を表示する。
func (e *env) runLoans(ctx context.Context, args []string) error {
	fs := e.newFlagSet("loans")
	filter := fs.String("filter", "all", "表示対象（all / active / returned / overdue）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	borrowed, err := e.loans.My(ctx, *filter)
	if err != nil {
		return err
	}

	if len(borrowed) == 0 {
		fmt.Fprintln(e.stdout, "該当する貸出はありません")
		return nil
	}

	for _, b := range borrowed {
		due := "-"
		if !b.DueDate.IsZero() {
			due = b.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(e.stdout, "[%d] %s (%s) %s 返却期日: %s\n",
			b.LoanID, b.Title, b.Category, b.Status, due)
	}
	return nil
}

// runReturn は貸出中の書籍を返却する。
func (e *env) runReturn(ctx context.Context, args []string) error {
	fs := e.newFlagSet("return")
	id := fs.Int("id", 0, "貸出ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loan, err := e.loans.Return(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "返却しました: 貸出ID %d\n", loan.ID)
	return nil
}

// printBookLine は書籍1冊を1行で表示する。
func printBookLine(w io.Writer, b *model.Book) {
	fmt.Fprintf(w, "[%d] %s / %s (%s) %.1f★ 在庫%d\n",
		b.ID, b.Title, b.AuthorName(), b.CategoryName(), b.Rating, b.AvailableCopies)
}

// stars は評価値を星の並びに変換する。
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// parseIDList はカンマ区切りのID列を解析する。
func parseIDList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, model.NewEmptySelectionError()
	}

	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, model.NewInvalidInputError(fmt.Sprintf("IDとして解釈できません: %s", p))
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, model.NewEmptySelectionError()
	}
	return ids, nil
}
