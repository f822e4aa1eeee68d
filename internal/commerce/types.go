package commerce

import (
	"encoding/json"
	"time"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// The commerce API wraps every payload in an envelope whose "status" field
// signals the real outcome. A 200 response with status != "success" is a
// failure and must not be treated as data.

const statusSuccess = "success"

type productPayload struct {
	ID              string          `json:"_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ImageCover      string          `json:"imageCover"`
	Images          []string        `json:"images"`
	Price           float64         `json:"price"`
	RatingsAverage  float64         `json:"ratingsAverage"`
	RatingsQuantity int             `json:"ratingsQuantity"`
	Sold            int             `json:"sold"`
	Quantity        int             `json:"quantity"`
	Category        categoryPayload `json:"category"`
	Brand           brandPayload    `json:"brand"`
}

type categoryPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type brandPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// cartLinePayload is one cart line on the wire. The "product" field is a
// populated object on reads but may collapse to a bare product ID string on
// mutation responses, so it is decoded leniently.
type cartLinePayload struct {
	ID      string          `json:"_id"`
	Count   int             `json:"count"`
	Price   float64         `json:"price"`
	Product json.RawMessage `json:"product"`
}

// product decodes the polymorphic product field. ok is false when the field
// held only a product ID string.
func (l *cartLinePayload) product() (productPayload, bool) {
	var p productPayload
	if err := json.Unmarshal(l.Product, &p); err == nil && p.ID != "" {
		return p, true
	}
	var id string
	if err := json.Unmarshal(l.Product, &id); err == nil {
		return productPayload{ID: id}, false
	}
	return productPayload{}, false
}

type cartDataPayload struct {
	ID             string            `json:"_id"`
	CartOwner      string            `json:"cartOwner"`
	Products       []cartLinePayload `json:"products"`
	TotalCartPrice float64           `json:"totalCartPrice"`
}

type cartResponse struct {
	Status         string          `json:"status"`
	NumOfCartItems int             `json:"numOfCartItems"`
	CartID         string          `json:"cartId"`
	Data           cartDataPayload `json:"data"`
}

func (r *cartResponse) toDomain() *domain.Cart {
	cart := &domain.Cart{
		ID:         r.Data.ID,
		OwnerID:    r.Data.CartOwner,
		TotalPrice: r.Data.TotalCartPrice,
		NumItems:   r.NumOfCartItems,
		Items:      make([]domain.CartItem, 0, len(r.Data.Products)),
	}
	if cart.ID == "" {
		cart.ID = r.CartID
	}
	for _, line := range r.Data.Products {
		p, _ := line.product()
		cart.Items = append(cart.Items, domain.CartItem{
			LineID:    line.ID,
			ProductID: p.ID,
			Title:     p.Title,
			ImageURL:  p.ImageCover,
			Brand:     p.Brand.Name,
			Category:  p.Category.Name,
			UnitPrice: line.Price,
			Quantity:  line.Count,
		})
	}
	return cart
}

type wishlistResponse struct {
	Status string           `json:"status"`
	Count  int              `json:"count"`
	Data   []productPayload `json:"data"`
}

func (r *wishlistResponse) toDomain() *domain.Wishlist {
	wl := &domain.Wishlist{
		Count: r.Count,
		Items: make([]domain.Product, 0, len(r.Data)),
	}
	for _, p := range r.Data {
		wl.Items = append(wl.Items, p.toDomain())
	}
	return wl
}

// wishlistMutationResponse is returned by wishlist add/remove: "data" holds
// the full list of product IDs now on the wishlist.
type wishlistMutationResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    []string `json:"data"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		ImageURL:      p.ImageCover,
		Images:        p.Images,
		Price:         p.Price,
		RatingsAvg:    p.RatingsAverage,
		RatingsCount:  p.RatingsQuantity,
		Sold:          p.Sold,
		QuantityStock: p.Quantity,
		Category: domain.Category{
			ID:       p.Category.ID,
			Name:     p.Category.Name,
			Slug:     p.Category.Slug,
			ImageURL: p.Category.Image,
		},
		Brand: domain.Brand{
			ID:       p.Brand.ID,
			Name:     p.Brand.Name,
			Slug:     p.Brand.Slug,
			ImageURL: p.Brand.Image,
		},
	}
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

type checkoutSessionResponse struct {
	Status  string `json:"status"`
	Session struct {
		URL string `json:"url"`
	} `json:"session"`
}

type orderPayload struct {
	ID                string            `json:"_id"`
	OrderNumber       int               `json:"id"`
	CartItems         []cartLinePayload `json:"cartItems"`
	TotalOrderPrice   float64           `json:"totalOrderPrice"`
	PaymentMethodType string            `json:"paymentMethodType"`
	IsPaid            bool              `json:"isPaid"`
	IsDelivered       bool              `json:"isDelivered"`
	ShippingAddress   addressPayload    `json:"shippingAddress"`
	CreatedAt         time.Time         `json:"createdAt"`
}

type addressPayload struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

func (o *orderPayload) toDomain() domain.Order {
	order := domain.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		TotalPrice:    o.TotalOrderPrice,
		PaymentMethod: o.PaymentMethodType,
		IsPaid:        o.IsPaid,
		IsDelivered:   o.IsDelivered,
		ShippingAddress: domain.Address{
			Details: o.ShippingAddress.Details,
			Phone:   o.ShippingAddress.Phone,
			City:    o.ShippingAddress.City,
		},
		CreatedAt: o.CreatedAt,
		Items:     make([]domain.CartItem, 0, len(o.CartItems)),
	}
	for _, line := range o.CartItems {
		p, _ := line.product()
		order.Items = append(order.Items, domain.CartItem{
			LineID:    line.ID,
			ProductID: p.ID,
			Title:     p.Title,
			ImageURL:  p.ImageCover,
			Brand:     p.Brand.Name,
			Category:  p.Category.Name,
			UnitPrice: line.Price,
			Quantity:  line.Count,
		})
	}
	return order
}

type productListResponse struct {
	Results int              `json:"results"`
	Data    []productPayload `json:"data"`
}

type productResponse struct {
	Data productPayload `json:"data"`
}

type categoryListResponse struct {
	Results int               `json:"results"`
	Data    []categoryPayload `json:"data"`
}

type brandListResponse struct {
	Results int            `json:"results"`
	Data    []brandPayload `json:"data"`
}
