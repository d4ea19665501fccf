package checkout

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

func init() {
	metrics.InitMetrics()
}

// memStore 内存数据库,三个仓储Fake共享同一份状态,
// fakeTxManager在出错时整体恢复快照来模拟事务回滚
type memStore struct {
	carts     map[uint]*cart.Cart // ownerID → cart
	cartItems map[uint][]cart.Item
	stocks    map[uint]int // bookID → quantity
	orders    []*order.Order
	nextID    uint
}

func newMemStore() *memStore {
	return &memStore{
		carts:     make(map[uint]*cart.Cart),
		cartItems: make(map[uint][]cart.Item),
		stocks:    make(map[uint]int),
		nextID:    1,
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.nextID = s.nextID
	for k, v := range s.carts {
		c := *v
		cp.carts[k] = &c
	}
	for k, v := range s.cartItems {
		cp.cartItems[k] = append([]cart.Item(nil), v...)
	}
	for k, v := range s.stocks {
		cp.stocks[k] = v
	}
	cp.orders = append([]*order.Order(nil), s.orders...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.carts = from.carts
	s.cartItems = from.cartItems
	s.stocks = from.stocks
	s.orders = from.orders
	s.nextID = from.nextID
}

// 购物车准备:建车并塞行
func (s *memStore) seedCart(ownerID uint, items ...cart.Item) {
	c := &cart.Cart{ID: s.nextID, OwnerID: ownerID}
	s.nextID++
	s.carts[ownerID] = c
	for i := range items {
		items[i].CartID = c.ID
	}
	s.cartItems[c.ID] = items
}

type fakeCartRepo struct{ store *memStore }

func (r *fakeCartRepo) FindByOwner(ctx context.Context, ownerID uint) (*cart.Cart, error) {
	return r.store.carts[ownerID], nil
}

func (r *fakeCartRepo) Create(ctx context.Context, c *cart.Cart) error {
	c.ID = r.store.nextID
	r.store.nextID++
	r.store.carts[c.OwnerID] = c
	return nil
}

func (r *fakeCartRepo) FindItem(ctx context.Context, cartID, bookID uint) (*cart.Item, error) {
	for _, it := range r.store.cartItems[cartID] {
		if it.BookID == bookID {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Items(ctx context.Context, cartID uint) ([]cart.Item, error) {
	items := append([]cart.Item(nil), r.store.cartItems[cartID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].BookID < items[j].BookID })
	return items, nil
}

func (r *fakeCartRepo) CreateItem(ctx context.Context, item *cart.Item) error {
	r.store.cartItems[item.CartID] = append(r.store.cartItems[item.CartID], *item)
	return nil
}

func (r *fakeCartRepo) IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error {
	return nil
}

func (r *fakeCartRepo) DecrementItemQuantity(ctx context.Context, itemID uint) (bool, error) {
	return false, nil
}

func (r *fakeCartRepo) ClearItems(ctx context.Context, cartID uint) error {
	r.store.cartItems[cartID] = nil
	return nil
}

func (r *fakeCartRepo) TotalUnits(ctx context.Context, ownerID uint) (int, error) {
	c := r.store.carts[ownerID]
	if c == nil {
		return 0, nil
	}
	total := 0
	for _, it := range r.store.cartItems[c.ID] {
		total += it.Quantity
	}
	return total, nil
}

func (r *fakeCartRepo) ViewByOwner(ctx context.Context, ownerID uint) (*cart.View, error) {
	return &cart.View{}, nil
}

type fakeStockRepo struct {
	store  *memStore
	locked []uint // 记录加锁顺序
}

func (r *fakeStockRepo) FindByBookID(ctx context.Context, bookID uint) (*inventory.Stock, error) {
	return r.LockByBookID(ctx, bookID)
}

func (r *fakeStockRepo) LockByBookID(ctx context.Context, bookID uint) (*inventory.Stock, error) {
	r.locked = append(r.locked, bookID)
	qty, ok := r.store.stocks[bookID]
	if !ok {
		return nil, nil
	}
	return &inventory.Stock{BookID: bookID, Quantity: qty}, nil
}

func (r *fakeStockRepo) Decrement(ctx context.Context, bookID uint, quantity int) error {
	qty, ok := r.store.stocks[bookID]
	if !ok || qty < quantity {
		return inventory.NewInsufficientStock(bookID, quantity, qty)
	}
	r.store.stocks[bookID] = qty - quantity
	return nil
}

func (r *fakeStockRepo) Upsert(ctx context.Context, bookID uint, quantity int) error {
	r.store.stocks[bookID] = quantity
	return nil
}

func (r *fakeStockRepo) ListWithBook(ctx context.Context, term string) ([]inventory.StockListing, error) {
	return nil, nil
}

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = r.store.nextID
	r.store.nextID++
	r.store.orders = append(r.store.orders, o)
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	for _, o := range r.store.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) List(ctx context.Context, params order.ListParams) ([]*order.Order, int64, error) {
	return r.store.orders, int64(len(r.store.orders)), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error { return nil }

// fakeUserRepo 只认识预先注册的买家
type fakeUserRepo struct{ users map[uint]*user.User }

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*user.User, error) {
	return nil, apperrors.ErrProfileNotBound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

// fakeTxManager 出错时恢复快照,模拟数据库事务回滚
type fakeTxManager struct{ store *memStore }

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

func newTestUseCase(store *memStore) (*UseCase, *fakeStockRepo) {
	stockRepo := &fakeStockRepo{store: store}
	uc := NewUseCase(
		&fakeCartRepo{store: store},
		stockRepo,
		&fakeOrderRepo{store: store},
		&fakeUserRepo{users: map[uint]*user.User{
			7: {ID: 7, Email: "buyer@test.com", Role: user.RoleUser},
		}},
		&fakeTxManager{store: store},
		nil, // 无缓存
		nil, // 无事件发布
	)
	return uc, stockRepo
}

// TestCheckoutSuccess 测试正常结账
func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stocks[1] = 10
	store.stocks[2] = 5
	store.seedCart(7,
		cart.Item{ID: 101, BookID: 1, Quantity: 2, UnitPrice: 8900},
		cart.Item{ID: 102, BookID: 2, Quantity: 1, UnitPrice: 12900},
	)

	uc, _ := newTestUseCase(store)

	resp, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay})
	if err != nil {
		t.Fatalf("结账失败: %v", err)
	}

	// 2*8900 + 1*12900 = 30700
	if resp.Total != 30700 {
		t.Errorf("总额应为30700，实际%d", resp.Total)
	}
	if resp.TotalFormatted != "307.00" {
		t.Errorf("展示金额应为307.00，实际%s", resp.TotalFormatted)
	}
	if resp.Status != int(order.StatusPending) {
		t.Errorf("新订单应为待处理状态，实际%d", resp.Status)
	}
	if resp.ItemCount != 2 {
		t.Errorf("订单行数应为2，实际%d", resp.ItemCount)
	}

	// 库存扣减
	if store.stocks[1] != 8 || store.stocks[2] != 4 {
		t.Errorf("库存应扣减为8/4，实际%d/%d", store.stocks[1], store.stocks[2])
	}

	// 购物车清空
	cartID := store.carts[7].ID
	if len(store.cartItems[cartID]) != 0 {
		t.Errorf("结账后购物车行应清空，实际剩%d行", len(store.cartItems[cartID]))
	}

	// 订单落库且单价取快照价
	if len(store.orders) != 1 {
		t.Fatalf("应落库1个订单，实际%d", len(store.orders))
	}
	o := store.orders[0]
	if o.BuyerID != 7 {
		t.Errorf("买家应为7，实际%d", o.BuyerID)
	}
	if o.Items[0].UnitPrice != 8900 || o.Items[1].UnitPrice != 12900 {
		t.Error("订单行单价应取购物车快照价")
	}
}

// TestCheckoutEmptyCart 测试空车结账
func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()

	t.Run("无购物车", func(t *testing.T) {
		uc, _ := newTestUseCase(newMemStore())

		_, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay})
		if !errors.Is(err, cart.ErrCartEmpty) {
			t.Errorf("应返回ErrCartEmpty，实际: %v", err)
		}
	})

	t.Run("有车无行", func(t *testing.T) {
		store := newMemStore()
		store.seedCart(7)
		uc, _ := newTestUseCase(store)

		_, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay})
		if !errors.Is(err, cart.ErrCartEmpty) {
			t.Errorf("应返回ErrCartEmpty，实际: %v", err)
		}
	})
}

// TestCheckoutInsufficientStock 测试库存不足回滚
// 第一行够、第二行不够:失败必须连第一行的扣减一起回滚
func TestCheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stocks[1] = 10
	store.stocks[2] = 1
	store.seedCart(7,
		cart.Item{ID: 101, BookID: 1, Quantity: 2, UnitPrice: 8900},
		cart.Item{ID: 102, BookID: 2, Quantity: 3, UnitPrice: 12900}, // 库存只有1
	)

	uc, _ := newTestUseCase(store)

	_, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay})
	if err == nil {
		t.Fatal("库存不足应结账失败")
	}

	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodeInsufficientStock {
		t.Errorf("错误码应为%d，实际%d", apperrors.ErrCodeInsufficientStock, appErr.Code)
	}

	// 回滚:第一行已扣的库存恢复
	if store.stocks[1] != 10 {
		t.Errorf("回滚后库存1应为10，实际%d", store.stocks[1])
	}
	// 购物车原样保留
	cartID := store.carts[7].ID
	if len(store.cartItems[cartID]) != 2 {
		t.Errorf("回滚后购物车应保留2行，实际%d", len(store.cartItems[cartID]))
	}
	// 没有订单
	if len(store.orders) != 0 {
		t.Errorf("回滚后不应有订单，实际%d", len(store.orders))
	}
}

// TestCheckoutStockNotFound 测试无库存记录
func TestCheckoutStockNotFound(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedCart(7, cart.Item{ID: 101, BookID: 99, Quantity: 1, UnitPrice: 100})

	uc, _ := newTestUseCase(store)

	_, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay})
	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodeStockNotFound {
		t.Errorf("错误码应为%d，实际%d", apperrors.ErrCodeStockNotFound, appErr.Code)
	}
}

// TestCheckoutInvalidPaymentMethod 测试支付方式白名单
func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stocks[1] = 10
	store.seedCart(7, cart.Item{ID: 101, BookID: 1, Quantity: 1, UnitPrice: 100})

	uc, _ := newTestUseCase(store)

	_, err := uc.Execute(ctx, 7, Request{PaymentMethod: "paypal"})
	if !errors.Is(err, order.ErrInvalidPaymentMethod) {
		t.Errorf("应返回ErrInvalidPaymentMethod，实际: %v", err)
	}

	// 校验在事务外,库存不应被碰
	if store.stocks[1] != 10 {
		t.Error("支付方式校验失败不应触碰库存")
	}
}

// TestCheckoutUnknownBuyer 测试事务内买家复核
// 买家记录不存在时整单拒绝,购物车和库存都不被触碰
func TestCheckoutUnknownBuyer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stocks[1] = 10
	store.seedCart(99, cart.Item{ID: 101, BookID: 1, Quantity: 2, UnitPrice: 8900})

	uc, _ := newTestUseCase(store) // 只注册了买家7

	_, err := uc.Execute(ctx, 99, Request{PaymentMethod: order.PaymentMBWay})
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("应返回ErrUnauthorized，实际: %v", err)
	}

	if store.stocks[1] != 10 {
		t.Error("买家复核失败不应扣减库存")
	}
	if len(store.cartItems[store.carts[99].ID]) != 1 {
		t.Error("买家复核失败不应清空购物车")
	}
	if len(store.orders) != 0 {
		t.Error("买家复核失败不应生成订单")
	}
}

// TestCheckoutLockOrder 测试按book_id升序加锁
func TestCheckoutLockOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stocks[3] = 10
	store.stocks[1] = 10
	store.stocks[2] = 10
	// 行故意乱序塞入
	store.seedCart(7,
		cart.Item{ID: 101, BookID: 3, Quantity: 1, UnitPrice: 100},
		cart.Item{ID: 102, BookID: 1, Quantity: 1, UnitPrice: 100},
		cart.Item{ID: 103, BookID: 2, Quantity: 1, UnitPrice: 100},
	)

	uc, stockRepo := newTestUseCase(store)

	if _, err := uc.Execute(ctx, 7, Request{PaymentMethod: order.PaymentMBWay}); err != nil {
		t.Fatalf("结账失败: %v", err)
	}

	want := []uint{1, 2, 3}
	if len(stockRepo.locked) != len(want) {
		t.Fatalf("应加锁%d次，实际%d", len(want), len(stockRepo.locked))
	}
	for i, id := range want {
		if stockRepo.locked[i] != id {
			t.Errorf("加锁顺序应为%v，实际%v", want, stockRepo.locked)
			break
		}
	}
}
