// Package app はCLIのエントリーポイントと依存関係のワイヤリングを提供する。
// 各起動は保存済み状態の復元、1サブコマンドの実行、状態の永続化という
// ライフサイクルをたどる。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hitoshi/booky/internal/api"
	"github.com/hitoshi/booky/internal/catalog"
	"github.com/hitoshi/booky/internal/config"
	"github.com/hitoshi/booky/internal/cover"
	"github.com/hitoshi/booky/internal/database"
	"github.com/hitoshi/booky/internal/loan"
	"github.com/hitoshi/booky/internal/logger"
	"github.com/hitoshi/booky/internal/review"
	"github.com/hitoshi/booky/internal/security"
	"github.com/hitoshi/booky/internal/state"
	"github.com/hitoshi/booky/internal/storage"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// ログはlogWに出力される（標準出力はコマンド結果のために空けておく）。
func Init(logW io.Writer) (*config.Config, error) {
	logger.SetupDefault(logW, os.Getenv("BOOKY_LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// env はワイヤリング済みの依存関係一式。
type env struct {
	cfg    *config.Config
	db     *sql.DB
	bridge *storage.Bridge
	client *api.Client
	store  *state.Store

	catalog *catalog.Service
	reviews *review.Service
	loans   *loan.Service
	covers  *cover.Fetcher

	stdout io.Writer
	stdin  io.Reader
}

// newEnv は全依存関係をワイヤリングする。
// ミラーキーのトークンはスナップショット復元より先にAPIクライアントへ
// 取り付けられる。
func newEnv(cfg *config.Config, stdout io.Writer, stdin io.Reader) (*env, error) {
	// Openが状態ディレクトリを作成するため、マイグレーションより先に開く
	db, err := database.Open(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := database.RunMigrations(cfg.StatePath()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	kv := storage.NewKV(db)
	bridge := storage.NewBridge(kv, slog.Default())

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.RateLimitPerMin, slog.Default())
	if token := bridge.Token(); token != "" {
		client.SetAuthToken(token)
	}

	store := state.New(bridge.Hydrate(), bridge, client, bridge)

	sanitizer := security.NewContentSanitizer()
	ssrfGuard := security.NewSSRFGuard()

	return &env{
		cfg:     cfg,
		db:      db,
		bridge:  bridge,
		client:  client,
		store:   store,
		catalog: catalog.NewService(client, sanitizer, slog.Default()),
		reviews: review.NewService(client, store, sanitizer, slog.Default()),
		loans:   loan.NewService(client, store, bridge, slog.Default()),
		covers:  cover.NewFetcher(ssrfGuard, cfg.CoverDir, slog.Default()),
		stdout:  stdout,
		stdin:   stdin,
	}, nil
}

// close は保持しているリソースを解放する。
func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応する処理を実行する。
// argsにはos.Args[1:]を渡す。コマンド結果はstdoutに、ログはlogWに出力される。
func Run(stdout, logW io.Writer, stdin io.Reader, args []string) error {
	cmd, rest := ParseCommand(args)

	// help は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHelp {
		printHelp(stdout)
		return nil
	}

	cfg, err := Init(logW)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Debug("starting booky",
		slog.String("command", string(cmd)),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	e, err := newEnv(cfg, stdout, stdin)
	if err != nil {
		return err
	}
	defer e.close()

	// Ctrl-Cで実行中のAPIリクエストを中断する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return e.dispatch(ctx, cmd, rest)
}

// dispatch はサブコマンドを対応するハンドラーへ振り分ける。
func (e *env) dispatch(ctx context.Context, cmd Command, args []string) error {
	switch cmd {
	case CommandLogin:
		return e.runLogin(ctx, args)
	case CommandLogout:
		return e.runLogout(args)
	case CommandRegister:
		return e.runRegister(ctx, args)
	case CommandMe:
		return e.runMe(ctx, args)
	case CommandBooks:
		return e.runBooks(ctx, args)
	case CommandBook:
		return e.runBook(ctx, args)
	case CommandRecommend:
		return e.runRecommend(ctx, args)
	case CommandCategories:
		return e.runCategories(ctx, args)
	case CommandAuthors:
		return e.runAuthors(ctx, args)
	case CommandReviews:
		return e.runReviews(ctx, args)
	case CommandReview:
		return e.runReview(ctx, args)
	case CommandCart:
		return e.runCart(ctx, args)
	case CommandCheckout:
		return e.runCheckout(ctx, args)
	case CommandLoans:
		return e.runLoans(ctx, args)
	case CommandReturn:
		return e.runReturn(ctx, args)
	default:
		printHelp(e.stdout)
		return nil
	}
}

// printHelp は使い方を表示する。
func printHelp(w io.Writer) {
	fmt.Fprint(w, `booky - 図書館カタログクライアント

使い方:
  booky <command> [flags]

アカウント:
  login       --email ADDR            ログイン（パスワードはプロンプト入力）
  logout                              ログアウト
  register    --name NAME --email ADDR 新規登録
  me                                  プロフィール表示

カタログ:
  books       [--page N] [--category ID] [--min-rating R] 書籍一覧
  book        --id N [--save-cover]   書籍詳細
  recommend                           おすすめ書籍
  categories                          カテゴリ一覧
  authors                             著者一覧

レビュー:
  reviews     --book N [--page N]     レビュー一覧
  review      --book N --star 1..5 [--comment TEXT] レビュー投稿
  review      --delete ID             レビュー削除

貸出:
  cart                                カート表示
  cart add    --id N                  カートに追加
  cart remove --id N                  カートから削除
  cart clear                          カートを空にする
  cart borrow --ids 1,2               貸出対象を選択
  checkout    --date YYYY-MM-DD --days {3|5|10} --agree --accept 貸出確定
  loans       [--filter all|active|returned|overdue] 貸出一覧
  return      --id N                  返却

環境変数:
  BOOKY_API_BASE_URL (必須), BOOKY_STATE_DIR, BOOKY_HTTP_TIMEOUT,
  BOOKY_RATE_LIMIT, BOOKY_PAGE_LIMIT, BOOKY_COVER_DIR, BOOKY_LOG_LEVEL
`)
}
