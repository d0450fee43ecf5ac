package usecase

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// OrderUsecase はOPEN⇔PLACEDの状態遷移を担当する。
// 在庫の増減とステータス変更は1つのトランザクションに閉じる。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	BookID    int64  `json:"book_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	CartID        int64             `json:"cart_id"`
	Status        string            `json:"status"`
	TotalQuantity int64             `json:"total_quantity"`
	TotalPrice    int64             `json:"total_price"`
	PlacedAt      time.Time         `json:"placed_at"`
	Items         []OrderItemOutput `json:"items"`
}

// PlaceOrder はOPENカートを注文に確定する。
// 全明細の在庫減算とPLACEDへの変更が全部成功するか、全部無かったことになるか。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewError(KindUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindOpenByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewError(KindNoActiveCart, "no active cart found")
		}
		if err != nil {
			return err
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return NewError(KindEmptyCart, "cart is empty, cannot place an order")
		}

		// 在庫を確定時に再チェックして減らす。
		// 1冊でも足りなければerrorを返してロールバック（減算は残らない）。
		outItems := make([]OrderItemOutput, 0, len(items))
		for _, it := range items {
			b, err := r.Books().FindByID(ctx, it.BookID)
			if err == repo.ErrNotFound {
				return NewError(KindBookNotFound, "book not found")
			}
			if err != nil {
				return err
			}

			ok, err := r.Inventory().DecrementStockIfEnough(ctx, it.BookID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// 減算に失敗した直後の在庫を読み直す。
				// 最初に読んだ値は他の注文確定で古くなっていることがある
				available := b.Stock
				if cur, readErr := r.Books().FindByID(ctx, it.BookID); readErr == nil {
					available = cur.Stock
				}
				return NewInsufficientStock(b.Name, it.Quantity, available)
			}

			outItems = append(outItems, OrderItemOutput{
				BookID:    it.BookID,
				Name:      b.Name,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			})
		}

		// OPENからの遷移だけを許す。0行更新なら他のリクエストが先に確定している
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusOpen, model.CartStatusPlaced); err != nil {
			if err == repo.ErrNotFound {
				return NewError(KindConcurrencyConflict, "cart was updated concurrently, retry")
			}
			return err
		}

		out = OrderOutput{
			CartID:        cart.ID,
			Status:        string(model.CartStatusPlaced),
			TotalQuantity: cart.TotalQuantity,
			TotalPrice:    cart.TotalPrice,
			PlacedAt:      time.Now(),
			Items:         outItems,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, classifyTxError(err)
	}
	return out, nil
}

// CancelOrder は最新のPLACEDカートをOPENへ戻す。
// 全明細の在庫戻しとステータス変更が全部成功するか、全部無かったことになるか。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewError(KindUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindLatestPlacedByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewError(KindNoPlacedOrder, "no placed order found")
		}
		if err != nil {
			return err
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}

		// 在庫戻し
		outItems := make([]OrderItemOutput, 0, len(items))
		for _, it := range items {
			if err := r.Inventory().IncrementStock(ctx, it.BookID, it.Quantity); err != nil {
				return err
			}

			name := ""
			if b, err := r.Books().FindByID(ctx, it.BookID); err == nil {
				name = b.Name
			}

			outItems = append(outItems, OrderItemOutput{
				BookID:    it.BookID,
				Name:      name,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			})
		}

		// PLACEDからの遷移だけを許す。0行更新なら取消が二重に走っている
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusPlaced, model.CartStatusOpen); err != nil {
			if err == repo.ErrNotFound {
				return NewError(KindConcurrencyConflict, "cart was updated concurrently, retry")
			}
			return err
		}

		out = OrderOutput{
			CartID:        cart.ID,
			Status:        string(model.CartStatusOpen),
			TotalQuantity: cart.TotalQuantity,
			TotalPrice:    cart.TotalPrice,
			PlacedAt:      cart.UpdatedAt,
			Items:         outItems,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, classifyTxError(err)
	}
	return out, nil
}

// ListOrders は注文（PLACEDカート）を新しい順で返す。1件も無ければNoPlacedOrder。
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewError(KindUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		carts, err := r.Carts().ListPlacedByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(carts) == 0 {
			return NewError(KindNoPlacedOrder, "no orders found")
		}

		outs = make([]OrderOutput, 0, len(carts))
		for _, cart := range carts {
			items, err := r.CartItems().ListByCartID(ctx, cart.ID)
			if err != nil {
				return err
			}

			outItems := make([]OrderItemOutput, 0, len(items))
			for _, it := range items {
				name := ""
				if b, err := r.Books().FindByID(ctx, it.BookID); err == nil {
					name = b.Name
				}
				outItems = append(outItems, OrderItemOutput{
					BookID:    it.BookID,
					Name:      name,
					UnitPrice: it.UnitPrice,
					Quantity:  it.Quantity,
				})
			}

			outs = append(outs, OrderOutput{
				CartID:        cart.ID,
				Status:        string(cart.Status),
				TotalQuantity: cart.TotalQuantity,
				TotalPrice:    cart.TotalPrice,
				PlacedAt:      cart.UpdatedAt,
				Items:         outItems,
			})
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, classifyTxError(err)
	}
	return outs, nil
}
