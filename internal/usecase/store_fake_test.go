package usecase_test

import (
	"context"
	"sort"
	"sync"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// =====================
// インメモリのフェイクストア。
// WithinTxはスナップショットを取り、fnがerrorを返したら巻き戻す。
// 本物のDBトランザクションと同じ「全部成功 or 全部無し」を再現する。
// =====================

type fakeStore struct {
	books       map[int64]model.Book
	carts       map[int64]model.Cart
	items       map[int64]model.CartItem
	adjustments []model.StockAdjustment

	nextCartID int64
	nextItemID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:      map[int64]model.Book{},
		carts:      map[int64]model.Cart{},
		items:      map[int64]model.CartItem{},
		nextCartID: 1,
		nextItemID: 1,
	}
}

func (s *fakeStore) addBook(b model.Book) {
	s.books[b.ID] = b
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.adjustments = append([]model.StockAdjustment{}, s.adjustments...)
	c.nextCartID = s.nextCartID
	c.nextItemID = s.nextItemID
	return c
}

type fakeTxManager struct {
	s *fakeStore

	// 1トランザクションずつ直列に実行（DBの行ロック相当）
	mu sync.Mutex
}

func newFakeTxManager(s *fakeStore) *fakeTxManager {
	return &fakeTxManager{s: s}
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.s.clone()
	err := fn(&fakeTxRepos{s: m.s})
	if err != nil {
		*m.s = *snapshot
	}
	return err
}

type fakeTxRepos struct {
	s *fakeStore
}

func (r *fakeTxRepos) Carts() repo.CartRepository          { return &fakeCartRepo{s: r.s} }
func (r *fakeTxRepos) CartItems() repo.CartItemRepository  { return &fakeCartItemRepo{s: r.s} }
func (r *fakeTxRepos) Books() repo.BookRepository          { return &fakeBookRepo{s: r.s} }
func (r *fakeTxRepos) Inventory() repo.InventoryRepository { return &fakeInventoryRepo{s: r.s} }

// =====================
// CartRepository
// =====================

type fakeCartRepo struct {
	s *fakeStore
}

func (r *fakeCartRepo) GetOrCreateOpenByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	for _, c := range r.s.carts {
		if c.UserID == userID && c.Status == model.CartStatusOpen {
			return c, nil
		}
	}

	cart := model.Cart{
		ID:     r.s.nextCartID,
		UserID: userID,
		Status: model.CartStatusOpen,
	}
	r.s.nextCartID++
	r.s.carts[cart.ID] = cart
	return cart, nil
}

func (r *fakeCartRepo) FindOpenByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	for _, c := range r.s.carts {
		if c.UserID == userID && c.Status == model.CartStatusOpen {
			return c, nil
		}
	}
	return model.Cart{}, repo.ErrNotFound
}

func (r *fakeCartRepo) FindLatestPlacedByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var found *model.Cart
	for _, c := range r.s.carts {
		c := c
		if c.UserID == userID && c.Status == model.CartStatusPlaced {
			if found == nil || c.ID > found.ID {
				found = &c
			}
		}
	}
	if found == nil {
		return model.Cart{}, repo.ErrNotFound
	}
	return *found, nil
}

func (r *fakeCartRepo) ListPlacedByUserID(ctx context.Context, userID int64) ([]model.Cart, error) {
	var carts []model.Cart
	for _, c := range r.s.carts {
		if c.UserID == userID && c.Status == model.CartStatusPlaced {
			carts = append(carts, c)
		}
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].ID > carts[j].ID })
	return carts, nil
}

func (r *fakeCartRepo) UpdateStatus(ctx context.Context, cartID int64, from model.CartStatus, to model.CartStatus) error {
	c, ok := r.s.carts[cartID]
	if !ok || c.Status != from {
		return repo.ErrNotFound
	}
	c.Status = to
	r.s.carts[cartID] = c
	return nil
}

func (r *fakeCartRepo) UpdateTotals(ctx context.Context, cartID int64, totalQuantity int64, totalPrice int64) error {
	c, ok := r.s.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	c.TotalQuantity = totalQuantity
	c.TotalPrice = totalPrice
	r.s.carts[cartID] = c
	return nil
}

func (r *fakeCartRepo) DeleteWithItems(ctx context.Context, cartID int64) error {
	if _, ok := r.s.carts[cartID]; !ok {
		return repo.ErrNotFound
	}
	for id, it := range r.s.items {
		if it.CartID == cartID {
			delete(r.s.items, id)
		}
	}
	delete(r.s.carts, cartID)
	return nil
}

// =====================
// CartItemRepository
// =====================

type fakeCartItemRepo struct {
	s *fakeStore
}

func (r *fakeCartItemRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	for _, it := range r.s.items {
		if it.CartID == cartID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeCartItemRepo) FindByCartAndBook(ctx context.Context, cartID int64, bookID int64) (model.CartItem, error) {
	for _, it := range r.s.items {
		if it.CartID == cartID && it.BookID == bookID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *fakeCartItemRepo) UpsertByCartAndBook(ctx context.Context, cartID int64, bookID int64, qty int64, unitPrice int64) error {
	for id, it := range r.s.items {
		if it.CartID == cartID && it.BookID == bookID {
			it.Quantity = qty
			it.UnitPrice = unitPrice
			r.s.items[id] = it
			return nil
		}
	}

	it := model.CartItem{
		ID:        r.s.nextItemID,
		CartID:    cartID,
		BookID:    bookID,
		Quantity:  qty,
		UnitPrice: unitPrice,
	}
	r.s.nextItemID++
	r.s.items[it.ID] = it
	return nil
}

func (r *fakeCartItemRepo) DeleteByCartAndBook(ctx context.Context, cartID int64, bookID int64) error {
	for id, it := range r.s.items {
		if it.CartID == cartID && it.BookID == bookID {
			delete(r.s.items, id)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *fakeCartItemRepo) SumByCartID(ctx context.Context, cartID int64) (repo.CartTotals, error) {
	var totals repo.CartTotals
	for _, it := range r.s.items {
		if it.CartID == cartID {
			totals.Quantity += it.Quantity
			totals.Price += it.Quantity * it.UnitPrice
		}
	}
	return totals, nil
}

// =====================
// BookRepository
// =====================

type fakeBookRepo struct {
	s *fakeStore
}

func (r *fakeBookRepo) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, error) {
	var books []model.Book
	for _, b := range r.s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id int64) (model.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return model.Book{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) Create(ctx context.Context, b model.Book) (model.Book, error) {
	r.s.books[b.ID] = b
	return b, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b model.Book) error {
	if _, ok := r.s.books[b.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.s.books[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.books, id)
	return nil
}

// =====================
// InventoryRepository
// =====================

type fakeInventoryRepo struct {
	s *fakeStore
}

func (r *fakeInventoryRepo) DecrementStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	b, ok := r.s.books[bookID]
	if !ok || b.Stock < qty {
		return false, nil
	}
	b.Stock -= qty
	r.s.books[bookID] = b
	return true, nil
}

func (r *fakeInventoryRepo) IncrementStock(ctx context.Context, bookID int64, qty int64) error {
	b, ok := r.s.books[bookID]
	if !ok {
		return repo.ErrNotFound
	}
	b.Stock += qty
	r.s.books[bookID] = b
	return nil
}

func (r *fakeInventoryRepo) SetStock(ctx context.Context, bookID int64, newStock int64) error {
	b, ok := r.s.books[bookID]
	if !ok {
		return repo.ErrNotFound
	}
	b.Stock = newStock
	r.s.books[bookID] = b
	return nil
}

func (r *fakeInventoryRepo) CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error {
	r.s.adjustments = append(r.s.adjustments, adjustment)
	return nil
}
