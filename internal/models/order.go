package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seeded order status names.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

type OrderStatus struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type PaymentMethod struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	IsEnabled bool               `bson:"isEnabled" json:"isEnabled"`
}

// Order. IsDeleted doubles as the cancellation marker: a cancelled order is a
// soft-deleted order and never comes back.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID  `bson:"user" json:"user"`
	TotalPrice    float64             `bson:"totalPrice" json:"totalPrice"`
	OrderStatus   primitive.ObjectID  `bson:"orderStatus" json:"orderStatus"`
	PaymentMethod primitive.ObjectID  `bson:"paymentMethod" json:"paymentMethod"`
	Discount      *primitive.ObjectID `bson:"discount,omitempty" json:"discount,omitempty"`
	IsDeleted     bool                `bson:"isDeleted" json:"-"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

type OrderDetail struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Order     primitive.ObjectID  `bson:"order" json:"order"`
	Product   primitive.ObjectID  `bson:"product" json:"product"`
	Discount  *primitive.ObjectID `bson:"discount,omitempty" json:"discount,omitempty"`
	Quantity  int                 `bson:"quantity" json:"quantity"`
	Price     float64             `bson:"price" json:"price"`
	IsDeleted bool                `bson:"isDeleted" json:"-"`
}

// OrderView is an order with its references expanded for list endpoints.
type OrderView struct {
	Order         `bson:",inline"`
	Status        *OrderStatus   `bson:"statusDoc,omitempty" json:"status,omitempty"`
	Payment       *PaymentMethod `bson:"paymentDoc,omitempty" json:"payment,omitempty"`
	DiscountDoc   *Discount      `bson:"discountDoc,omitempty" json:"discountDetail,omitempty"`
	Buyer         *UserSummary   `bson:"buyerDoc,omitempty" json:"buyer,omitempty"`
}

// OrderDetailView is a line item with its product summary joined in.
type OrderDetailView struct {
	OrderDetail `bson:",inline"`
	ProductDoc  *ProductSummary `bson:"productDoc,omitempty" json:"productDetail,omitempty"`
}

// TrackedOrder is the tracking view: buyer, status, payment and live line items.
type TrackedOrder struct {
	OrderView `bson:",inline"`
	Items     []OrderDetailView `json:"items"`
}

// OrderStatistics aggregates live orders in a date range.
type OrderStatistics struct {
	TotalSales  float64 `bson:"totalSales" json:"totalSales"`
	TotalOrders int64   `bson:"totalOrders" json:"totalOrders"`
}

// LineItem is the caller-supplied order line used at creation time. Price is
// trusted as given, not re-read from the catalog.
type LineItem struct {
	Product  primitive.ObjectID  `json:"productId"`
	Discount *primitive.ObjectID `json:"discountId,omitempty"`
	Quantity int                 `json:"quantity"`
	Price    float64             `json:"price"`
}

// Total sums price x quantity over the supplied line items.
func Total(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
