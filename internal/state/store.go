package state

import (
	"sync"

	"github.com/hitoshi/booky/internal/model"
)

// Persister はスナップショットの永続化インターフェース。
// 書き込み失敗は実装側でログに記録して握りつぶす。遷移をブロックしてはならない。
type Persister interface {
	Persist(snapshot Snapshot)
}

// TokenSink は認証トークンをHTTPクライアントへ伝搬するインターフェース。
type TokenSink interface {
	// SetAuthToken は以後の全リクエストにBearerトークンを付与する。
	SetAuthToken(token string)
	// ClearAuthToken はAuthorizationヘッダーを除去する。
	ClearAuthToken()
}

// SessionMirror はトークンとユーザーを専用の保存キーへミラーするインターフェース。
// スナップショット本体とは別に保存され、次回起動時のHTTPクライアント初期化で
// フルハイドレーション前にトークンを復元するために使用する。
type SessionMirror interface {
	SaveSession(token string, user *model.User)
	ClearSession()
}

// Store はセッションとカートの単一の信頼できる状態源。
// 遷移はミューテックスで直列化され、適用順に購読者へ同期通知される。
type Store struct {
	mu       sync.Mutex
	snapshot Snapshot

	nextListenerID int
	listeners      []storeListener

	persister Persister
	tokenSink TokenSink
	mirror    SessionMirror
}

type storeListener struct {
	id int
	fn func(Snapshot)
}

// New はStoreの新しいインスタンスを生成する。
// initialにはハイドレーション済みのスナップショットを渡す。
// persister、tokenSink、mirrorはnil可（その場合は該当の副作用をスキップする）。
func New(initial Snapshot, persister Persister, tokenSink TokenSink, mirror SessionMirror) *Store {
	return &Store{
		snapshot:  initial.Clone(),
		persister: persister,
		tokenSink: tokenSink,
		mirror:    mirror,
	}
}

// Snapshot は現在のスナップショットのコピーを同期的に返す。ブロックしない。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Subscribe はリスナーを登録し、解除用のハンドルを返す。
// リスナーは全ての遷移成功後に登録順で同期的に呼び出される。
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListenerID++
	id := s.nextListenerID
	s.listeners = append(s.listeners, storeListener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// dispatch は純粋な遷移を適用し、購読者への通知と永続化を行う。
// 通知が先、永続化が後。永続化失敗は遷移の成否に影響しない。
func (s *Store) dispatch(apply func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	next := apply(s.snapshot)
	s.snapshot = next
	listeners := make([]storeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(next.Clone())
	}

	if s.persister != nil {
		s.persister.Persist(next.Clone())
	}

	return next
}

// EstablishCredentials は認証情報をアトミックに設定する。
// トークンをHTTPクライアントの既定ヘッダーへ伝搬し、専用キーへミラーする。
// セッションフィールドを書き換えられるのは本メソッドとClearCredentialsのみ。
func (s *Store) EstablishCredentials(token string, user model.User) {
	if s.tokenSink != nil {
		s.tokenSink.SetAuthToken(token)
	}
	if s.mirror != nil {
		u := user
		s.mirror.SaveSession(token, &u)
	}
	s.dispatch(func(cur Snapshot) Snapshot {
		return reduceEstablishCredentials(cur, token, user)
	})
}

// ClearCredentials は認証情報を解除する。冪等であり、常に成功する。
// HTTPクライアントのAuthorizationヘッダーとミラーキーも除去される。
func (s *Store) ClearCredentials() {
	if s.tokenSink != nil {
		s.tokenSink.ClearAuthToken()
	}
	if s.mirror != nil {
		s.mirror.ClearSession()
	}
	s.dispatch(reduceClearCredentials)
}

// AddItem はカートへエントリを追加する。
// 既存IDはQuantityを1加算し、新規IDはQuantity=1で末尾に追加される。
func (s *Store) AddItem(item model.CartItem) {
	s.dispatch(func(cur Snapshot) Snapshot {
		return reduceAddItem(cur, item)
	})
}

// RemoveItem は指定書籍IDのエントリを取り除く。存在しない場合はno-op。
func (s *Store) RemoveItem(bookID int) {
	s.dispatch(func(cur Snapshot) Snapshot {
		return reduceRemoveItem(cur, bookID)
	})
}

// ClearCart はカートを無条件に空にする。
func (s *Store) ClearCart() {
	s.dispatch(reduceClearCart)
}
