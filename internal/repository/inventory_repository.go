package repository

import (
	"bookstore/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（check-then-setを1文のUPDATEで行う）
	DecrementStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）
	IncrementStock(ctx context.Context, bookID int64, qty int64) error

	// 在庫の現在値を設定（補充）
	SetStock(ctx context.Context, bookID int64, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error
}
