package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/models"
)

// Store failure taxonomy. Handlers map these to HTTP statuses; everything
// else is a 500.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon has reached its maximum redemptions")
)

type Users interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetVerifyCode(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error
	MarkVerified(ctx context.Context, id primitive.ObjectID, code string) error
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, token, passwordHash string) error
	RoleByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
}

type ProductFilter struct {
	Page     int
	Limit    int
	Category *primitive.ObjectID
	MinPrice *float64
	MaxPrice *float64
	// Sort is "asc" or "desc" by price; empty means newest first.
	Sort string
}

type Catalog interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]models.Product, error)
	BestSellers(ctx context.Context, limit int) ([]models.Product, error)

	ListCategories(ctx context.Context, page, limit int) ([]models.Category, int64, error)
	CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	PopularCategories(ctx context.Context, limit int) ([]models.Category, error)
}

type Carts interface {
	CartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Items(ctx context.Context, cartID primitive.ObjectID) ([]models.CartItemView, error)
	AddItem(ctx context.Context, cartID *primitive.ObjectID, productID primitive.ObjectID, quantity int, price float64, note string) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID primitive.ObjectID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, itemID primitive.ObjectID) error
	ClearCart(ctx context.Context, cartID primitive.ObjectID) (int64, error)
}

type Coupons interface {
	// Redeem validates and increments timesRedeemed as one conditional update.
	Redeem(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
	ByCode(ctx context.Context, code string) (*models.Coupon, error)
	All(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	UpdateByCode(ctx context.Context, code string, fields map[string]interface{}) (*models.Coupon, error)
	DeleteByCode(ctx context.Context, code string) error
}

type Discounts interface {
	Active(ctx context.Context, now time.Time) ([]models.DiscountView, error)
	All(ctx context.Context) ([]models.DiscountView, error)
	Create(ctx context.Context, d *models.Discount) error
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.DiscountView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Orders interface {
	// Create persists the order, then its details. The two writes are not
	// atomic: a failure in between leaves an order without line items.
	Create(ctx context.Context, order *models.Order, items []models.LineItem) ([]models.OrderDetail, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error)
	All(ctx context.Context) ([]models.OrderView, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.OrderView, error)
	UpdateStatus(ctx context.Context, orderID, statusID primitive.ObjectID) (*models.OrderView, error)
	Cancel(ctx context.Context, orderID primitive.ObjectID) error
	Track(ctx context.Context, orderID primitive.ObjectID) (*models.TrackedOrder, error)
	Statistics(ctx context.Context, start, end *time.Time) (*models.OrderStatistics, error)
	StatusByName(ctx context.Context, name string) (*models.OrderStatus, error)
	PaymentMethodByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentMethod, error)
}

type Reviews interface {
	Create(ctx context.Context, r *models.Review) error
	ByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Like(ctx context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error)
	Unlike(ctx context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error)
}

// Stores bundles every repository over one database handle.
type Stores struct {
	Users     Users
	Catalog   Catalog
	Carts     Carts
	Coupons   Coupons
	Discounts Discounts
	Orders    Orders
	Reviews   Reviews

	db *database.DB
}

func NewStores(db *database.DB) *Stores {
	return &Stores{
		Users:     &userStore{db: db},
		Catalog:   &catalogStore{db: db},
		Carts:     &cartStore{db: db},
		Coupons:   &couponStore{db: db},
		Discounts: &discountStore{db: db},
		Orders:    &orderStore{db: db},
		Reviews:   &reviewStore{db: db},
		db:        db,
	}
}
