package usecase

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// APIレイヤがHTTPへ変換するためのエラー種別。
// 文言ではなくKindで判別する。
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindInvalidQuantity     ErrorKind = "INVALID_QUANTITY"
	KindBookNotFound        ErrorKind = "BOOK_NOT_FOUND"
	KindCartNotFound        ErrorKind = "CART_NOT_FOUND"
	KindItemNotFound        ErrorKind = "ITEM_NOT_FOUND"
	KindInsufficientStock   ErrorKind = "INSUFFICIENT_STOCK"
	KindNoActiveCart        ErrorKind = "NO_ACTIVE_CART"
	KindEmptyCart           ErrorKind = "EMPTY_CART"
	KindNoPlacedOrder       ErrorKind = "NO_PLACED_ORDER"
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindInternal            ErrorKind = "INTERNAL"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// 在庫不足。要求数・現在庫・書名をメッセージに含める。
func NewInsufficientStock(bookName string, requested int64, available int64) error {
	return NewError(KindInsufficientStock,
		fmt.Sprintf("not enough stock for %s: requested %d, available %d", bookName, requested, available))
}

func newInternal(message string) error {
	return NewError(KindInternal, message)
}

// トランザクション境界で出たエラーをKindに落とす。
// usecase自身のエラーはそのまま、直列化失敗はConcurrencyConflict、
// それ以外は内部エラー（部分的な書き込みは残らない）。
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := AsError(err); ok {
		return ue
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected / unique_violation
		// （ユニーク制約は同時リクエストの負け側だけが踏むので、リトライで解消する）
		if pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "23505" {
			return NewError(KindConcurrencyConflict, "conflicting concurrent update, retry")
		}
	}

	return newInternal("db error")
}
