package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

// 明細の合計（数量と金額）
type CartTotals struct {
	Quantity int64
	Price    int64
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndBook(ctx context.Context, cartID int64, bookID int64) (model.CartItem, error)

	// 同一書籍は数量を置き換える（加算ではない）。unit_priceも毎回上書き
	UpsertByCartAndBook(ctx context.Context, cartID int64, bookID int64, qty int64, unitPrice int64) error

	DeleteByCartAndBook(ctx context.Context, cartID int64, bookID int64) error

	// 合計をDB側で集計する（差分計算はしない）
	SumByCartID(ctx context.Context, cartID int64) (CartTotals, error)
}
