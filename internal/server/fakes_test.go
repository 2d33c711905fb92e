package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/auth"
	"github.com/AnhKhoa14/bakery/internal/config"
	"github.com/AnhKhoa14/bakery/internal/mail"
	"github.com/AnhKhoa14/bakery/internal/models"
	"github.com/AnhKhoa14/bakery/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory stand-ins for the mongo stores, honoring the documented store
// contracts so handler tests can run without a database.

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
	roles map[string]*models.Role

	// findByEmailErr, when set, is returned from FindByEmail to simulate an
	// infrastructure failure on the lookup.
	findByEmailErr error
}

func newFakeUsers() *fakeUsers {
	f := &fakeUsers{
		users: map[primitive.ObjectID]*models.User{},
		roles: map[string]*models.Role{},
	}
	for _, name := range []string{models.RoleAdmin, models.RoleCustomer, models.RoleManager} {
		f.roles[name] = &models.Role{ID: primitive.NewObjectID(), Name: name}
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.IsActive = true
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}
	for _, u := range f.users {
		if u.Email == email && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) SetVerifyCode(_ context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.VerifyCode = code
	u.ExpiredCode = &expiry
	return nil
}

func (f *fakeUsers) MarkVerified(_ context.Context, id primitive.ObjectID, code string) error {
	u, ok := f.users[id]
	if !ok || u.VerifyCode != code || u.ExpiredCode == nil || u.ExpiredCode.Before(time.Now()) {
		return store.ErrNotFound
	}
	u.IsVerified = true
	u.VerifyCode = ""
	u.ExpiredCode = nil
	return nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, email, token string, expiry time.Time) (*models.User, error) {
	u, err := f.FindByEmail(nil, email)
	if err != nil {
		return nil, err
	}
	u.ForgotPasswordToken = token
	u.ForgotPasswordTokenExpiry = &expiry
	return u, nil
}

func (f *fakeUsers) ResetPassword(_ context.Context, token, passwordHash string) error {
	for _, u := range f.users {
		if u.ForgotPasswordToken == token && u.ForgotPasswordTokenExpiry != nil && u.ForgotPasswordTokenExpiry.After(time.Now()) {
			u.Password = passwordHash
			u.ForgotPasswordToken = ""
			u.ForgotPasswordTokenExpiry = nil
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUsers) RoleByID(_ context.Context, id primitive.ObjectID) (*models.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) RoleByName(_ context.Context, name string) (*models.Role, error) {
	r, ok := f.roles[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

type fakeCoupons struct {
	coupons map[string]*models.Coupon
}

func newFakeCoupons() *fakeCoupons {
	return &fakeCoupons{coupons: map[string]*models.Coupon{}}
}

func (f *fakeCoupons) Redeem(_ context.Context, code string, now time.Time) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok || c.IsDeleted {
		return nil, store.ErrNotFound
	}
	if c.RedeemBy != nil && c.RedeemBy.Before(now) {
		return nil, store.ErrCouponExpired
	}
	if c.MaxRedemptions != nil && c.TimesRedeemed >= *c.MaxRedemptions {
		return nil, store.ErrCouponExhausted
	}
	c.TimesRedeemed++
	return c, nil
}

func (f *fakeCoupons) ByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok || c.IsDeleted {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeCoupons) All(_ context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range f.coupons {
		if !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCoupons) Create(_ context.Context, c *models.Coupon) error {
	if _, ok := f.coupons[c.Code]; ok {
		return store.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	c.Created = time.Now()
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeCoupons) UpdateByCode(_ context.Context, code string, fields map[string]interface{}) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok || c.IsDeleted {
		return nil, store.ErrNotFound
	}
	if v, ok := fields["percentOff"].(float64); ok {
		c.PercentOff = &v
	}
	if v, ok := fields["amountOff"].(float64); ok {
		c.AmountOff = &v
	}
	if v, ok := fields["maxRedemptions"].(int); ok {
		c.MaxRedemptions = &v
	}
	if v, ok := fields["redeemBy"].(time.Time); ok {
		c.RedeemBy = &v
	}
	return c, nil
}

func (f *fakeCoupons) DeleteByCode(_ context.Context, code string) error {
	c, ok := f.coupons[code]
	if !ok || c.IsDeleted {
		return store.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

type fakeCarts struct {
	carts    map[primitive.ObjectID]*models.Cart
	items    map[primitive.ObjectID]*models.CartItem
	products map[primitive.ObjectID]models.ProductSummary
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{
		carts:    map[primitive.ObjectID]*models.Cart{},
		items:    map[primitive.ObjectID]*models.CartItem{},
		products: map[primitive.ObjectID]models.ProductSummary{},
	}
}

func (f *fakeCarts) CartByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	for _, cart := range f.carts {
		if cart.User != nil && *cart.User == userID && !cart.IsDeleted {
			return cart, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCarts) Items(_ context.Context, cartID primitive.ObjectID) ([]models.CartItemView, error) {
	var views []models.CartItemView
	for _, it := range f.items {
		if it.Cart == cartID && !it.IsDeleted {
			views = append(views, models.CartItemView{
				ID:        it.ID,
				Product:   f.products[it.Product],
				Quantity:  it.Quantity,
				Price:     it.Price,
				Note:      it.Note,
				IsChecked: it.IsChecked,
			})
		}
	}
	return views, nil
}

func (f *fakeCarts) AddItem(_ context.Context, cartID *primitive.ObjectID, productID primitive.ObjectID, quantity int, price float64, note string) (*models.CartItem, error) {
	var cart *models.Cart
	if cartID != nil {
		if existing, ok := f.carts[*cartID]; ok && !existing.IsDeleted {
			cart = existing
		}
	}
	if cart == nil {
		cart = &models.Cart{ID: primitive.NewObjectID()}
		f.carts[cart.ID] = cart
	}

	for _, it := range f.items {
		if it.Cart == cart.ID && it.Product == productID && !it.IsDeleted {
			it.Quantity += quantity
			it.Price = price
			return it, nil
		}
	}

	item := &models.CartItem{
		ID:        primitive.NewObjectID(),
		Cart:      cart.ID,
		Product:   productID,
		Quantity:  quantity,
		Price:     price,
		Note:      note,
		IsChecked: true,
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCarts) UpdateQuantity(_ context.Context, itemID primitive.ObjectID, quantity int) (*models.CartItem, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if quantity <= 0 {
		delete(f.items, itemID)
		return nil, nil
	}
	it.Quantity = quantity
	return it, nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, itemID primitive.ObjectID) error {
	it, ok := f.items[itemID]
	if !ok || it.IsDeleted {
		return store.ErrNotFound
	}
	it.IsDeleted = true
	return nil
}

func (f *fakeCarts) ClearCart(_ context.Context, cartID primitive.ObjectID) (int64, error) {
	var cleared int64
	for _, it := range f.items {
		if it.Cart == cartID && !it.IsDeleted {
			it.IsDeleted = true
			cleared++
		}
	}
	return cleared, nil
}

type fakeOrders struct {
	users    *fakeUsers
	orders   map[primitive.ObjectID]*models.Order
	details  map[primitive.ObjectID][]models.OrderDetail
	statuses map[string]*models.OrderStatus
	payments map[primitive.ObjectID]*models.PaymentMethod

	// failDetails makes Create fail after the order header is stored,
	// mirroring the store's non-atomic header/detail writes.
	failDetails bool
}

func newFakeOrders(users *fakeUsers) *fakeOrders {
	f := &fakeOrders{
		users:    users,
		orders:   map[primitive.ObjectID]*models.Order{},
		details:  map[primitive.ObjectID][]models.OrderDetail{},
		statuses: map[string]*models.OrderStatus{},
		payments: map[primitive.ObjectID]*models.PaymentMethod{},
	}
	for _, name := range []string{
		models.StatusPending, models.StatusProcessing, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled,
	} {
		f.statuses[name] = &models.OrderStatus{ID: primitive.NewObjectID(), Name: name}
	}
	return f
}

func (f *fakeOrders) addPayment(name string, enabled bool) *models.PaymentMethod {
	m := &models.PaymentMethod{ID: primitive.NewObjectID(), Name: name, IsEnabled: enabled}
	f.payments[m.ID] = m
	return m
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order, items []models.LineItem) ([]models.OrderDetail, error) {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order

	if f.failDetails {
		return nil, errors.New("failed to insert order details")
	}

	details := make([]models.OrderDetail, 0, len(items))
	for _, it := range items {
		details = append(details, models.OrderDetail{
			ID:       primitive.NewObjectID(),
			Order:    order.ID,
			Product:  it.Product,
			Discount: it.Discount,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	f.details[order.ID] = details
	return details, nil
}

func (f *fakeOrders) view(o *models.Order) models.OrderView {
	v := models.OrderView{Order: *o}
	for _, st := range f.statuses {
		if st.ID == o.OrderStatus {
			v.Status = st
		}
	}
	if p, ok := f.payments[o.PaymentMethod]; ok {
		v.Payment = p
	}
	return v
}

func (f *fakeOrders) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	var out []models.OrderView
	for _, o := range f.orders {
		if o.User == userID && !o.IsDeleted {
			out = append(out, f.view(o))
		}
	}
	return out, nil
}

func (f *fakeOrders) All(_ context.Context) ([]models.OrderView, error) {
	var out []models.OrderView
	for _, o := range f.orders {
		if !o.IsDeleted {
			out = append(out, f.view(o))
		}
	}
	return out, nil
}

func (f *fakeOrders) ByID(_ context.Context, id primitive.ObjectID) (*models.OrderView, error) {
	o, ok := f.orders[id]
	if !ok || o.IsDeleted {
		return nil, store.ErrNotFound
	}
	v := f.view(o)
	return &v, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, orderID, statusID primitive.ObjectID) (*models.OrderView, error) {
	var status *models.OrderStatus
	for _, st := range f.statuses {
		if st.ID == statusID {
			status = st
		}
	}
	if status == nil {
		return nil, store.ErrNotFound
	}
	o, ok := f.orders[orderID]
	if !ok || o.IsDeleted {
		return nil, store.ErrNotFound
	}
	o.OrderStatus = status.ID
	v := f.view(o)
	return &v, nil
}

func (f *fakeOrders) Cancel(_ context.Context, orderID primitive.ObjectID) error {
	o, ok := f.orders[orderID]
	if !ok || o.IsDeleted {
		return store.ErrNotFound
	}
	o.IsDeleted = true
	return nil
}

func (f *fakeOrders) Track(ctx context.Context, orderID primitive.ObjectID) (*models.TrackedOrder, error) {
	v, err := f.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var items []models.OrderDetailView
	for _, d := range f.details[orderID] {
		if !d.IsDeleted {
			items = append(items, models.OrderDetailView{OrderDetail: d})
		}
	}
	return &models.TrackedOrder{OrderView: *v, Items: items}, nil
}

func (f *fakeOrders) Statistics(_ context.Context, start, end *time.Time) (*models.OrderStatistics, error) {
	stats := &models.OrderStatistics{}
	for _, o := range f.orders {
		if o.IsDeleted {
			continue
		}
		if start != nil && end != nil && (o.CreatedAt.Before(*start) || o.CreatedAt.After(*end)) {
			continue
		}
		stats.TotalSales += o.TotalPrice
		stats.TotalOrders++
	}
	return stats, nil
}

func (f *fakeOrders) StatusByName(_ context.Context, name string) (*models.OrderStatus, error) {
	st, ok := f.statuses[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return st, nil
}

func (f *fakeOrders) PaymentMethodByID(_ context.Context, id primitive.ObjectID) (*models.PaymentMethod, error) {
	m, ok := f.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

type fakeReviews struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[primitive.ObjectID]*models.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.ID = primitive.NewObjectID()
	if r.Likes == nil {
		r.Likes = []primitive.ObjectID{}
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviews) ByProduct(_ context.Context, productID primitive.ObjectID) ([]models.ReviewView, error) {
	var views []models.ReviewView
	for _, r := range f.reviews {
		if r.Product == productID && !r.IsDeleted {
			views = append(views, models.ReviewView{Review: *r})
		}
	}
	return views, nil
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	r, ok := f.reviews[id]
	if !ok || r.IsDeleted {
		return store.ErrNotFound
	}
	r.IsDeleted = true
	return nil
}

func (f *fakeReviews) Like(_ context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.IsDeleted {
		return nil, store.ErrNotFound
	}
	for _, id := range r.Likes {
		if id == userID {
			return r, nil
		}
	}
	r.Likes = append(r.Likes, userID)
	return r, nil
}

func (f *fakeReviews) Unlike(_ context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.IsDeleted {
		return nil, store.ErrNotFound
	}
	kept := r.Likes[:0]
	for _, id := range r.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.Likes = kept
	return r, nil
}

type testEnv struct {
	server  *Server
	codec   *auth.TokenCodec
	users   *fakeUsers
	coupons *fakeCoupons
	carts   *fakeCarts
	orders  *fakeOrders
	reviews *fakeReviews
}

func newTestEnv() *testEnv {
	users := newFakeUsers()
	coupons := newFakeCoupons()
	carts := newFakeCarts()
	orders := newFakeOrders(users)
	reviews := newFakeReviews()

	codec := auth.NewTokenCodec("test-secret", time.Hour)
	stores := &store.Stores{
		Users:   users,
		Coupons: coupons,
		Carts:   carts,
		Orders:  orders,
		Reviews: reviews,
	}
	return &testEnv{
		server:  NewServer(nil, stores, codec, mail.New(config.MailConfig{})),
		codec:   codec,
		users:   users,
		coupons: coupons,
		carts:   carts,
		orders:  orders,
		reviews: reviews,
	}
}

// registerUser seeds a user directly through the fake store and returns the
// user along with a token carrying the given role.
func (e *testEnv) registerUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	r, err := e.users.RoleByName(context.Background(), role)
	require.NoError(t, err)
	user := &models.User{
		Username: email,
		Email:    email,
		Password: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash1234",
		FullName: "Test User",
		Role:     r.ID,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	token, err := e.codec.Issue(user.ID.Hex(), role)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
