package usecase_test

import (
	"context"
	"sync"
	"testing"

	"bookstore/internal/domain/model"
	"bookstore/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newCartUsecaseWithStore() (*usecase.CartUsecase, *fakeStore) {
	store := newFakeStore()
	uc := usecase.NewCartUsecase(newFakeTxManager(store))
	return uc, store
}

func assertKind(t *testing.T, err error, want usecase.ErrorKind) {
	t.Helper()
	ue, ok := usecase.AsError(err)
	if assert.True(t, ok, "err=%v want usecase.Error", err) {
		assert.Equal(t, want, ue.Kind)
	}
}

func TestCartUsecase_GetCart_CreatesOpenCartLazily(t *testing.T) {
	uc, store := newCartUsecaseWithStore()

	out, err := uc.GetCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, string(model.CartStatusOpen), out.Status)
	assert.Equal(t, int64(0), out.TotalQuantity)
	assert.Equal(t, int64(0), out.TotalPrice)
	assert.Len(t, out.Items, 0)
	assert.Len(t, store.carts, 1)

	// 2回目は同じカートを返す（ユーザーごとにOPENは1つ）
	again, err := uc.GetCart(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, out.ID, again.ID)
	assert.Len(t, store.carts, 1)
}

func TestCartUsecase_UpsertItem_RecomputesTotals(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})

	out, err := uc.UpsertItem(context.Background(), 1, 10, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalQuantity)
	assert.Equal(t, int64(300), out.TotalPrice)
	assert.Len(t, out.Items, 1)

	// 同一書籍の再投入は加算ではなく置き換え。明細も1行のまま
	out, err = uc.UpsertItem(context.Background(), 1, 10, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.TotalQuantity)
	assert.Equal(t, int64(500), out.TotalPrice)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Len(t, store.items, 1)
}

func TestCartUsecase_UpsertItem_TotalsAcrossBooks(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})
	store.addBook(model.Book{ID: 11, Name: "実践データベース", Price: 250, Stock: 4})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)

	out, err := uc.UpsertItem(context.Background(), 1, 11, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.TotalQuantity)
	assert.Equal(t, int64(2*100+3*250), out.TotalPrice)
	assert.Len(t, out.Items, 2)
}

func TestCartUsecase_UpsertItem_ResnapshotsUnitPrice(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)

	// カタログ側の価格が変わる
	b := store.books[10]
	b.Price = 150
	store.books[10] = b

	out, err := uc.UpsertItem(context.Background(), 1, 10, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(150), out.Items[0].UnitPrice)
	assert.Equal(t, int64(450), out.TotalPrice)
}

func TestCartUsecase_UpsertItem_InvalidQuantity(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 0)
	assertKind(t, err, usecase.KindInvalidQuantity)

	_, err = uc.UpsertItem(context.Background(), 1, 10, -1)
	assertKind(t, err, usecase.KindInvalidQuantity)

	// 何も書き込まれない
	assert.Len(t, store.carts, 0)
	assert.Len(t, store.items, 0)
}

func TestCartUsecase_UpsertItem_BookNotFound(t *testing.T) {
	uc, store := newCartUsecaseWithStore()

	_, err := uc.UpsertItem(context.Background(), 1, 999, 1)
	assertKind(t, err, usecase.KindBookNotFound)
	assert.Len(t, store.items, 0)
}

func TestCartUsecase_UpsertItem_InsufficientStock(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 2})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 5)
	assertKind(t, err, usecase.KindInsufficientStock)

	// 要求数・現在庫・書名がメッセージに入る
	assert.Contains(t, err.Error(), "Go言語入門")
	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "available 2")

	// 明細は作られず、合計も変わらない
	assert.Len(t, store.items, 0)
	for _, c := range store.carts {
		assert.Equal(t, int64(0), c.TotalQuantity)
		assert.Equal(t, int64(0), c.TotalPrice)
	}
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})
	store.addBook(model.Book{ID: 11, Name: "実践データベース", Price: 250, Stock: 4})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)
	_, err = uc.UpsertItem(context.Background(), 1, 11, 1)
	assert.NoError(t, err)

	out, err := uc.RemoveItem(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.TotalQuantity)
	assert.Equal(t, int64(250), out.TotalPrice)
}

func TestCartUsecase_RemoveItem_CartNotFound(t *testing.T) {
	uc, _ := newCartUsecaseWithStore()

	_, err := uc.RemoveItem(context.Background(), 1, 10)
	assertKind(t, err, usecase.KindCartNotFound)
}

func TestCartUsecase_RemoveItem_ItemNotFound(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})

	_, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)

	_, err = uc.RemoveItem(context.Background(), 1, 999)
	assertKind(t, err, usecase.KindItemNotFound)

	// 既存の明細はそのまま
	assert.Len(t, store.items, 1)
}

func TestCartUsecase_ConcurrentRemoveAndUpsert_TotalsMatchItems(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})
	store.addBook(model.Book{ID: 11, Name: "実践データベース", Price: 250, Stock: 4})

	out, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)
	_, err = uc.UpsertItem(context.Background(), 1, 11, 1)
	assert.NoError(t, err)
	cartID := out.ID

	// 同一カートへの削除と投入が同時に走っても、
	// それぞれのトランザクションで直列化される
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = uc.RemoveItem(context.Background(), 1, 10)
	}()
	go func() {
		defer wg.Done()
		_, _ = uc.UpsertItem(context.Background(), 1, 11, 3)
	}()
	wg.Wait()

	// 合計は常に明細の集計と一致する
	var wantQty, wantPrice int64
	for _, it := range store.items {
		if it.CartID == cartID {
			wantQty += it.Quantity
			wantPrice += it.Quantity * it.UnitPrice
		}
	}
	cart := store.carts[cartID]
	assert.Equal(t, wantQty, cart.TotalQuantity)
	assert.Equal(t, wantPrice, cart.TotalPrice)
}

func TestCartUsecase_ClearCart(t *testing.T) {
	uc, store := newCartUsecaseWithStore()
	store.addBook(model.Book{ID: 10, Name: "Go言語入門", Price: 100, Stock: 10})

	out, err := uc.UpsertItem(context.Background(), 1, 10, 2)
	assert.NoError(t, err)

	// カートは明細ごと消える
	assert.NoError(t, uc.ClearCart(context.Background(), 1))
	assert.Len(t, store.items, 0)
	_, ok := store.carts[out.ID]
	assert.False(t, ok)

	// もう一度はCartNotFound
	err = uc.ClearCart(context.Background(), 1)
	assertKind(t, err, usecase.KindCartNotFound)
}

func TestCartUsecase_Unauthorized(t *testing.T) {
	uc, _ := newCartUsecaseWithStore()

	_, err := uc.GetCart(context.Background(), 0)
	assertKind(t, err, usecase.KindUnauthorized)

	_, err = uc.UpsertItem(context.Background(), 0, 10, 1)
	assertKind(t, err, usecase.KindUnauthorized)

	_, err = uc.RemoveItem(context.Background(), -1, 10)
	assertKind(t, err, usecase.KindUnauthorized)

	err = uc.ClearCart(context.Background(), 0)
	assertKind(t, err, usecase.KindUnauthorized)
}
