package app

// Command はCLIのサブコマンドを表す。
type Command string

const (
	// CommandLogin はログインを実行することを示す。
	CommandLogin Command = "login"
	// CommandLogout はログアウトを実行することを示す。
	CommandLogout Command = "logout"
	// CommandRegister は新規ユーザー登録を実行することを示す。
	CommandRegister Command = "register"
	// CommandMe はプロフィール表示を実行することを示す。
	CommandMe Command = "me"
	// CommandBooks は書籍一覧の表示を示す。
	CommandBooks Command = "books"
	// CommandBook は書籍詳細の表示を示す。
	CommandBook Command = "book"
	// CommandRecommend はおすすめ書籍の表示を示す。
	CommandRecommend Command = "recommend"
	// CommandCategories はカテゴリ一覧の表示を示す。
	CommandCategories Command = "categories"
	// CommandAuthors は著者一覧の表示を示す。
	CommandAuthors Command = "authors"
	// CommandReviews はレビュー一覧の表示を示す。
	CommandReviews Command = "reviews"
	// CommandReview はレビューの投稿・削除を示す。
	CommandReview Command = "review"
	// CommandCart はカート操作を示す。
	CommandCart Command = "cart"
	// CommandCheckout は貸出確定を示す。
	CommandCheckout Command = "checkout"
	// CommandLoans は貸出一覧の表示を示す。
	CommandLoans Command = "loans"
	// CommandReturn は書籍の返却を示す。
	CommandReturn Command = "return"
	// CommandHelp はヘルプ表示を示す。
	CommandHelp Command = "help"
)

// ParseCommand はコマンドライン引数からサブコマンドと残りの引数を解析する。
// 引数が空またはサポート外のコマンドの場合はCommandHelpを返す。
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CommandHelp, nil
	}

	switch args[0] {
	case "login":
		return CommandLogin, args[1:]
	case "logout":
		return CommandLogout, args[1:]
	case "register":
		return CommandRegister, args[1:]
	case "me":
		return CommandMe, args[1:]
	case "books":
		return CommandBooks, args[1:]
	case "book":
		return CommandBook, args[1:]
	case "recommend":
		return CommandRecommend, args[1:]
	case "categories":
		return CommandCategories, args[1:]
	case "authors":
		return CommandAuthors, args[1:]
	case "reviews":
		return CommandReviews, args[1:]
	case "review":
		return CommandReview, args[1:]
	case "cart":
		return CommandCart, args[1:]
	case "checkout":
		return CommandCheckout, args[1:]
	case "loans":
		return CommandLoans, args[1:]
	case "return":
		return CommandReturn, args[1:]
	default:
		return CommandHelp, nil
	}
}
