package usecase

import (
	"context"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細の書き込みと合計の再計算は必ず同一トランザクションで行う。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartItemResponse struct {
	BookID    int64  `json:"book_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type CartResponse struct {
	ID            int64              `json:"id"`
	Status        string             `json:"status"`
	TotalQuantity int64              `json:"total_quantity"`
	TotalPrice    int64              `json:"total_price"`
	Items         []CartItemResponse `json:"items"`
}

// GetCart はカート取得（無ければOPENを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateOpenByUserID(ctx, userID)
		if err != nil {
			return err
		}

		out, err = buildCartResponse(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, classifyTxError(err)
	}
	return out, nil
}

// UpsertItem はカートに書籍を入れる。
// 同一書籍は明細を増やさず数量を置き換え、価格はその時点のBook.Priceを取り直す。
// ここでの在庫チェックは確定ではない（確定時にもう一度やる）。
func (u *CartUsecase) UpsertItem(ctx context.Context, userID int64, bookID int64, quantity int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return CartResponse{}, NewError(KindInvalidInput, "invalid book id")
	}
	if quantity <= 0 {
		return CartResponse{}, NewError(KindInvalidQuantity, "quantity must be greater than zero")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// OPENカート取得（無ければ作成）
		cart, err := r.Carts().GetOrCreateOpenByUserID(ctx, userID)
		if err != nil {
			return err
		}

		// 書籍チェック
		b, err := r.Books().FindByID(ctx, bookID)
		if err == repo.ErrNotFound {
			return NewError(KindBookNotFound, "book not found")
		}
		if err != nil {
			return err
		}

		// 参考の在庫チェック（他カートの分は数えない）
		if quantity > b.Stock {
			return NewInsufficientStock(b.Name, quantity, b.Stock)
		}

		// Upsert（絶対値で置き換え、unit_priceは現在価格）
		if err := r.CartItems().UpsertByCartAndBook(ctx, cart.ID, bookID, quantity, b.Price); err != nil {
			return err
		}

		// 合計は明細全件から再計算して保存
		if err := recomputeTotals(ctx, r, &cart); err != nil {
			return err
		}

		out, err = buildCartResponse(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, classifyTxError(err)
	}
	return out, nil
}

// RemoveItem は明細を削除して合計を再計算する。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, bookID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return CartResponse{}, NewError(KindInvalidInput, "invalid book id")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindOpenByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewError(KindCartNotFound, "cart not found")
		}
		if err != nil {
			return err
		}

		if _, err := r.CartItems().FindByCartAndBook(ctx, cart.ID, bookID); err != nil {
			if err == repo.ErrNotFound {
				return NewError(KindItemNotFound, "item not found in the cart")
			}
			return err
		}

		if err := r.CartItems().DeleteByCartAndBook(ctx, cart.ID, bookID); err != nil {
			return err
		}

		if err := recomputeTotals(ctx, r, &cart); err != nil {
			return err
		}

		out, err = buildCartResponse(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, classifyTxError(err)
	}
	return out, nil
}

// ClearCart はOPENカートを明細ごと削除する。
// カートは明細を所有する集約なので、削除は必ず同一トランザクションで行う。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewError(KindUnauthorized, "unauthorized")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindOpenByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewError(KindCartNotFound, "cart not found")
		}
		if err != nil {
			return err
		}

		return r.Carts().DeleteWithItems(ctx, cart.ID)
	})

	return classifyTxError(err)
}

// 合計を明細からの集計値で上書きする（差分計算はしない）。
func recomputeTotals(ctx context.Context, r repo.TxRepos, cart *model.Cart) error {
	totals, err := r.CartItems().SumByCartID(ctx, cart.ID)
	if err != nil {
		return err
	}

	if err := r.Carts().UpdateTotals(ctx, cart.ID, totals.Quantity, totals.Price); err != nil {
		return err
	}

	cart.TotalQuantity = totals.Quantity
	cart.TotalPrice = totals.Price
	return nil
}

// cartの明細をまとめてCartResponseを作る。
func buildCartResponse(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, err
	}

	respItems := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		name := ""
		if b, err := r.Books().FindByID(ctx, it.BookID); err == nil {
			name = b.Name
		}

		respItems = append(respItems, CartItemResponse{
			BookID:    it.BookID,
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return CartResponse{
		ID:            cart.ID,
		Status:        string(cart.Status),
		TotalQuantity: cart.TotalQuantity,
		TotalPrice:    cart.TotalPrice,
		Items:         respItems,
	}, nil
}
