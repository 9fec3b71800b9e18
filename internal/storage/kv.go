// Package storage はセッション・カート状態の永続化ブリッジを提供する。
// SQLiteのキーバリューテーブルを耐久ストレージとして使用する。
package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// KV はキーバリューテーブルへの低レベルアクセスを提供する。
type KV struct {
	db *sql.DB
}

// NewKV はKVの新しいインスタンスを生成する。
// dbはマイグレーション適用済みであること。
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get は指定キーの値を取得する。キーが存在しない場合はfalseを返す。
func (kv *KV) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set は指定キーへ値を書き込む。既存キーは上書きされる。
func (kv *KV) Set(key, value string) error {
	_, err := kv.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete は指定キーを削除する。キーが存在しない場合もエラーにならない。
func (kv *KV) Delete(key string) error {
	if _, err := kv.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
