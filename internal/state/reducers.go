package state

import "github.com/hitoshi/booky/internal/model"

// reduceEstablishCredentials は認証情報を設定した新しいスナップショットを返す。
// カートの所有者が別ユーザーの場合はカートを空にする。
// ゲストカート（OwnerID 0）はログインしたユーザーが引き継ぐ。
func reduceEstablishCredentials(s Snapshot, token string, user model.User) Snapshot {
	next := s.Clone()

	u := user
	next.Auth.Token = token
	next.Auth.User = &u

	if next.Cart.OwnerID != 0 && next.Cart.OwnerID != user.ID {
		next.Cart.Items = nil
	}
	next.Cart.OwnerID = user.ID

	return next
}

// reduceClearCredentials は認証情報を解除した新しいスナップショットを返す。
// カートは保持される（同一ユーザーの再ログインで引き継がれる）。
func reduceClearCredentials(s Snapshot) Snapshot {
	next := s.Clone()
	next.Auth.Token = ""
	next.Auth.User = nil
	return next
}

// reduceAddItem はカートへの追加を適用した新しいスナップショットを返す。
// 既存IDの場合はQuantityのみ加算し、ペイロードの他フィールドは破棄する。
// 新規IDはQuantity=1で末尾に追加する。
func reduceAddItem(s Snapshot, item model.CartItem) Snapshot {
	next := s.Clone()

	for i := range next.Cart.Items {
		if next.Cart.Items[i].ID == item.ID {
			next.Cart.Items[i].Quantity++
			return next
		}
	}

	item.Quantity = 1
	next.Cart.Items = append(next.Cart.Items, item)
	return next
}

// reduceRemoveItem は指定IDのエントリを取り除いた新しいスナップショットを返す。
// 存在しないIDはno-op。残りのエントリの相対順序は保持される。
func reduceRemoveItem(s Snapshot, bookID int) Snapshot {
	next := s.Clone()

	items := next.Cart.Items[:0]
	for _, item := range next.Cart.Items {
		if item.ID != bookID {
			items = append(items, item)
		}
	}
	next.Cart.Items = items
	return next
}

// reduceClearCart はカートを無条件に空にした新しいスナップショットを返す。
func reduceClearCart(s Snapshot) Snapshot {
	next := s.Clone()
	next.Cart.Items = nil
	return next
}
