package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

type CartRepository interface {
	// OPENカートを取得し、無ければ作る（同一トランザクション内でfind-or-create）
	GetOrCreateOpenByUserID(ctx context.Context, userID int64) (model.Cart, error)

	// 行ロック付きで取得する。同一カートへの操作はこのロックで直列化される
	FindOpenByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindLatestPlacedByUserID(ctx context.Context, userID int64) (model.Cart, error)

	ListPlacedByUserID(ctx context.Context, userID int64) ([]model.Cart, error)

	// statusがfromのときだけtoへ変える。0行更新ならErrNotFound
	UpdateStatus(ctx context.Context, cartID int64, from model.CartStatus, to model.CartStatus) error

	// 合計は明細からの再計算値だけを書き込む
	UpdateTotals(ctx context.Context, cartID int64, totalQuantity int64, totalPrice int64) error

	// カートは明細を所有する。削除は明細ごと同一トランザクションで行う
	DeleteWithItems(ctx context.Context, cartID int64) error
}
