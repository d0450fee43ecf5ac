package usecase

import (
	"context"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// BookUsecase はカタログ管理（出品者向け）と公開読み取り。
// 在庫の直接設定は補充だけで、注文処理とは経路を分ける。
type BookUsecase struct {
	bookRepo repo.BookRepository
	tx       repo.TransactionManager
}

func NewBookUsecase(bookRepo repo.BookRepository, tx repo.TransactionManager) *BookUsecase {
	return &BookUsecase{bookRepo: bookRepo, tx: tx}
}

type BookResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	SellerID    int64     `json:"seller_id"`
	Price       int64     `json:"price"`
	PublishDate time.Time `json:"publish_date"`
	Stock       int64     `json:"stock"`
}

type CreateBookInput struct {
	Name        string
	Author      string
	Description string
	Price       int64
	PublishDate time.Time
	Stock       int64
}

type UpdateBookInput struct {
	Name        string
	Author      string
	Description string
	Price       int64
	PublishDate time.Time
}

type RestockInput struct {
	Stock  int64
	Reason string
}

// List は書名の部分一致で一覧を返す。
func (u *BookUsecase) List(ctx context.Context, name string) ([]BookResponse, error) {
	books, err := u.bookRepo.List(ctx, repo.BookListQuery{Name: name})
	if err != nil {
		return []BookResponse{}, newInternal("db error")
	}

	outs := make([]BookResponse, 0, len(books))
	for _, b := range books {
		outs = append(outs, toBookResponse(b))
	}
	return outs, nil
}

func (u *BookUsecase) Get(ctx context.Context, bookID int64) (BookResponse, error) {
	if bookID <= 0 {
		return BookResponse{}, NewError(KindInvalidInput, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return BookResponse{}, NewError(KindBookNotFound, "book not found")
	}
	if err != nil {
		return BookResponse{}, newInternal("db error")
	}
	return toBookResponse(b), nil
}

func (u *BookUsecase) Create(ctx context.Context, sellerID int64, in CreateBookInput) (BookResponse, error) {
	if sellerID <= 0 {
		return BookResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if err := validateBookInput(in.Name, in.Author, in.Price); err != nil {
		return BookResponse{}, err
	}
	if in.Stock < 0 {
		return BookResponse{}, NewError(KindInvalidInput, "stock must not be negative")
	}

	now := time.Now()
	b, err := u.bookRepo.Create(ctx, model.Book{
		Name:        strings.TrimSpace(in.Name),
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		SellerID:    sellerID,
		Price:       in.Price,
		PublishDate: in.PublishDate,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return BookResponse{}, newInternal("db error")
	}
	return toBookResponse(b), nil
}

// Update は出品者本人だけが更新できる。在庫はここでは変えない。
func (u *BookUsecase) Update(ctx context.Context, sellerID int64, bookID int64, in UpdateBookInput) (BookResponse, error) {
	if sellerID <= 0 {
		return BookResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return BookResponse{}, NewError(KindInvalidInput, "invalid book id")
	}
	if err := validateBookInput(in.Name, in.Author, in.Price); err != nil {
		return BookResponse{}, err
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return BookResponse{}, NewError(KindBookNotFound, "book not found")
	}
	if err != nil {
		return BookResponse{}, newInternal("db error")
	}
	if b.SellerID != sellerID {
		return BookResponse{}, NewError(KindForbidden, "not the seller of this book")
	}

	b.Name = strings.TrimSpace(in.Name)
	b.Author = strings.TrimSpace(in.Author)
	b.Description = in.Description
	b.Price = in.Price
	b.PublishDate = in.PublishDate

	if err := u.bookRepo.Update(ctx, b); err != nil {
		if err == repo.ErrNotFound {
			return BookResponse{}, NewError(KindBookNotFound, "book not found")
		}
		return BookResponse{}, newInternal("db error")
	}
	return toBookResponse(b), nil
}

func (u *BookUsecase) Delete(ctx context.Context, sellerID int64, bookID int64) error {
	if sellerID <= 0 {
		return NewError(KindUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return NewError(KindInvalidInput, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return NewError(KindBookNotFound, "book not found")
	}
	if err != nil {
		return newInternal("db error")
	}
	if b.SellerID != sellerID {
		return NewError(KindForbidden, "not the seller of this book")
	}

	if err := u.bookRepo.SoftDelete(ctx, bookID); err != nil {
		if err == repo.ErrNotFound {
			return NewError(KindBookNotFound, "book not found")
		}
		return newInternal("db error")
	}
	return nil
}

// Restock は在庫の現在値を設定し、調整履歴を同一トランザクションで残す。
func (u *BookUsecase) Restock(ctx context.Context, sellerID int64, bookID int64, in RestockInput) (BookResponse, error) {
	if sellerID <= 0 {
		return BookResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return BookResponse{}, NewError(KindInvalidInput, "invalid book id")
	}
	if in.Stock < 0 {
		return BookResponse{}, NewError(KindInvalidInput, "stock must not be negative")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return BookResponse{}, NewError(KindInvalidInput, "reason is required")
	}

	var out BookResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByID(ctx, bookID)
		if err == repo.ErrNotFound {
			return NewError(KindBookNotFound, "book not found")
		}
		if err != nil {
			return err
		}
		if b.SellerID != sellerID {
			return NewError(KindForbidden, "not the seller of this book")
		}

		if err := r.Inventory().SetStock(ctx, bookID, in.Stock); err != nil {
			return err
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.StockAdjustment{
			BookID:    bookID,
			SellerID:  sellerID,
			Delta:     in.Stock - b.Stock,
			Reason:    strings.TrimSpace(in.Reason),
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}

		b.Stock = in.Stock
		out = toBookResponse(b)
		return nil
	})

	if err != nil {
		return BookResponse{}, classifyTxError(err)
	}
	return out, nil
}

func validateBookInput(name string, author string, price int64) error {
	if strings.TrimSpace(name) == "" {
		return NewError(KindInvalidInput, "name is required")
	}
	if strings.TrimSpace(author) == "" {
		return NewError(KindInvalidInput, "author is required")
	}
	if price < 0 {
		return NewError(KindInvalidInput, "price must not be negative")
	}
	return nil
}

func toBookResponse(b model.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Name:        b.Name,
		Author:      b.Author,
		Description: b.Description,
		SellerID:    b.SellerID,
		Price:       b.Price,
		PublishDate: b.PublishDate,
		Stock:       b.Stock,
	}
}
