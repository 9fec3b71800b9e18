package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     Command
		wantRest int
	}{
		{"引数なしはhelp", nil, CommandHelp, 0},
		{"login", []string{"login", "--email", "a@example.com"}, CommandLogin, 2},
		{"logout", []string{"logout"}, CommandLogout, 0},
		{"register", []string{"register"}, CommandRegister, 0},
		{"me", []string{"me"}, CommandMe, 0},
		{"books", []string{"books", "--page", "2"}, CommandBooks, 2},
		{"book", []string{"book", "--id", "1"}, CommandBook, 2},
		{"recommend", []string{"recommend"}, CommandRecommend, 0},
		{"categories", []string{"categories"}, CommandCategories, 0},
		{"authors", []string{"authors"}, CommandAuthors, 0},
		{"reviews", []string{"reviews"}, CommandReviews, 0},
		{"review", []string{"review"}, CommandReview, 0},
		{"cart", []string{"cart", "add", "--id", "1"}, CommandCart, 3},
		{"checkout", []string{"checkout"}, CommandCheckout, 0},
		{"loans", []string{"loans"}, CommandLoans, 0},
		{"return", []string{"return", "--id", "3"}, CommandReturn, 2},
		{"未知のコマンドはhelp", []string{"fly"}, CommandHelp, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := ParseCommand(tt.args)
			if got != tt.want {
				t.Errorf("ParseCommand(%v) = %s, want %s", tt.args, got, tt.want)
			}
			if len(rest) != tt.wantRest {
				t.Errorf("残り引数 = %d個, want %d個", len(rest), tt.wantRest)
			}
		})
	}
}

func TestRun_Help_SkipsInitialization(t *testing.T) {
	// 設定なしでもhelpは成功する
	var stdout, logBuf bytes.Buffer
	if err := Run(&stdout, &logBuf, strings.NewReader(""), nil); err != nil {
		t.Fatalf("help がエラーを返した: %v", err)
	}
	if !strings.Contains(stdout.String(), "booky") {
		t.Error("ヘルプに使い方が含まれるべき")
	}
}

// newFakeAPI はBooky APIを模したテストサーバーを起動する。
// Authorizationヘッダーの観測とエンベロープ形式のレスポンスを提供する。
func newFakeAPI(t *testing.T) (*httptest.Server, *fakeAPIState) {
	t.Helper()

	st := &fakeAPIState{}
	mux := http.NewServeMux()

	writeData := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"token": "abc",
			"user":  map[string]any{"id": 7, "name": "Ann", "email": "ann@example.com"},
		})
	})
	mux.HandleFunc("GET /api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		st.lastAuth = r.Header.Get("Authorization")
		id := r.PathValue("id")
		writeData(w, map[string]any{
			"id":    jsonInt(id),
			"title": "Book " + id,
			"author": map[string]any{
				"id": 1, "name": "Author " + id,
			},
		})
	})
	mux.HandleFunc("POST /api/loans", func(w http.ResponseWriter, r *http.Request) {
		st.lastAuth = r.Header.Get("Authorization")
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		st.loanedBookIDs = append(st.loanedBookIDs, body["bookId"])
		writeData(w, map[string]any{"id": 100 + body["bookId"], "status": "BORROWED"})
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		st.lastAuth = r.Header.Get("Authorization")
		writeData(w, map[string]any{"id": 7, "name": "Ann", "email": "ann@example.com"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, st
}

type fakeAPIState struct {
	lastAuth      string
	loanedBookIDs []int
}

// jsonInt はパス引数をJSON数値として返すための変換。
func jsonInt(s string) int {
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}

// runCLI は1回のCLI起動を模して実行し標準出力を返す。
func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var stdout, logBuf bytes.Buffer
	if err := Run(&stdout, &logBuf, strings.NewReader(stdin), args); err != nil {
		t.Fatalf("booky %s がエラーを返した: %v", strings.Join(args, " "), err)
	}
	return stdout.String()
}

func setupIntegration(t *testing.T) *fakeAPIState {
	t.Helper()
	server, st := newFakeAPI(t)
	t.Setenv("BOOKY_API_BASE_URL", server.URL)
	t.Setenv("BOOKY_STATE_DIR", t.TempDir())
	t.Setenv("BOOKY_LOG_LEVEL", "error")
	return st
}

func TestRun_CartSequence_PersistsAcrossInvocations(t *testing.T) {
	setupIntegration(t)

	// 同じ書籍を2回追加して1冊削除: 数量2→削除で空
	runCLI(t, "", "cart", "add", "--id", "1")
	runCLI(t, "", "cart", "add", "--id", "1")

	out := runCLI(t, "", "cart")
	if !strings.Contains(out, "x2") {
		t.Errorf("同一書籍の2回追加で数量2になるべき:\n%s", out)
	}
	if !strings.Contains(out, "合計 2冊") {
		t.Errorf("合計数量 = 2 になるべき:\n%s", out)
	}

	runCLI(t, "", "cart", "remove", "--id", "1")

	out = runCLI(t, "", "cart")
	if !strings.Contains(out, "カートは空です") {
		t.Errorf("削除後はカートが空になるべき:\n%s", out)
	}
}

func TestRun_Login_AttachesBearerHeaderAcrossInvocations(t *testing.T) {
	st := setupIntegration(t)

	// パスワードはstdinから供給される
	out := runCLI(t, "secret\n", "login", "--email", "ann@example.com")
	if !strings.Contains(out, "Ann") {
		t.Errorf("ログイン成功の表示にユーザー名が含まれるべき:\n%s", out)
	}

	// 新しい起動でも復元されたトークンがヘッダーに付く
	runCLI(t, "", "me")
	if st.lastAuth != "Bearer abc" {
		t.Errorf("Authorizationヘッダー = %q, want %q", st.lastAuth, "Bearer abc")
	}
}

func TestRun_Logout_RemovesCredentials(t *testing.T) {
	setupIntegration(t)

	runCLI(t, "secret\n", "login", "--email", "ann@example.com")
	runCLI(t, "", "logout")

	// ログアウト後のmeはローカルで拒否される
	var stdout, logBuf bytes.Buffer
	err := Run(&stdout, &logBuf, strings.NewReader(""), []string{"me"})
	if err == nil {
		t.Fatal("ログアウト後のmeはエラーを返すべき")
	}
}

func TestRun_CheckoutFlow_ClearsCartAndSelection(t *testing.T) {
	st := setupIntegration(t)

	runCLI(t, "secret\n", "login", "--email", "ann@example.com")
	runCLI(t, "", "cart", "add", "--id", "1")
	runCLI(t, "", "cart", "add", "--id", "2")
	runCLI(t, "", "cart", "borrow", "--ids", "1,2")

	out := runCLI(t, "", "checkout",
		"--date", "2026-09-01", "--days", "5", "--agree", "--accept")
	if !strings.Contains(out, "2冊の貸出を確定しました") {
		t.Errorf("確定の表示が不正:\n%s", out)
	}
	if !strings.Contains(out, "返却日: 2026-09-06") {
		t.Errorf("返却日 = 貸出日+5日 になるべき:\n%s", out)
	}

	if len(st.loanedBookIDs) != 2 {
		t.Errorf("貸出申請数 = %d, want 2", len(st.loanedBookIDs))
	}

	out = runCLI(t, "", "cart")
	if !strings.Contains(out, "カートは空です") {
		t.Errorf("確定後はカートが空になるべき:\n%s", out)
	}
}

func TestRun_Checkout_ValidationRefusedLocally(t *testing.T) {
	st := setupIntegration(t)

	runCLI(t, "secret\n", "login", "--email", "ann@example.com")
	runCLI(t, "", "cart", "add", "--id", "1")
	runCLI(t, "", "cart", "borrow", "--ids", "1")

	var stdout, logBuf bytes.Buffer
	err := Run(&stdout, &logBuf, strings.NewReader(""),
		[]string{"checkout", "--date", "2026-09-01", "--days", "7", "--agree", "--accept"})
	if err == nil {
		t.Fatal("無効な貸出期間はエラーを返すべき")
	}

	if len(st.loanedBookIDs) != 0 {
		t.Error("検証失敗はネットワークに到達してはならない")
	}
}
