package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword はパスワードを読み取る。
// 標準入力が端末の場合はエコーなしで読み取り、
// パイプ等の場合はstdinから1行読む（テストやスクリプトでの利用向け）。
func promptPassword(w io.Writer, stdin io.Reader, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("パスワードの読み取りに失敗しました: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("パスワードの読み取りに失敗しました: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
