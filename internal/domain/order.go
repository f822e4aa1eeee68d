package domain

import "time"

// Order is a completed order as returned by the commerce API. Orders are
// looked up by the cart owner ID captured from cart reads, not by session.
type Order struct {
	ID              string     `json:"id"`
	OrderNumber     int        `json:"order_number"`
	Items           []CartItem `json:"items"`
	TotalPrice      float64    `json:"total_price"`
	PaymentMethod   string     `json:"payment_method"`
	IsPaid          bool       `json:"is_paid"`
	IsDelivered     bool       `json:"is_delivered"`
	ShippingAddress Address    `json:"shipping_address"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Address is the shipping address collected at checkout.
type Address struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

// CheckoutSession is the hosted payment session created for a cart. The
// storefront redirects the shopper to PaymentURL to complete payment.
type CheckoutSession struct {
	PaymentURL string `json:"payment_url"`
}
