// Package serializers maps persisted entities to their public JSON payloads.
// Inputs are fully-resolved aggregates: callers preload the associations a
// payload embeds before serializing.
package serializers

import (
	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/validation"
)

// UserPayload is the public user representation. The password hash and auth
// token are never part of it; the token is only returned by SessionPayload.
type UserPayload struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	ProductIDs []uint `json:"product_ids"`
}

// EmbeddedUser is the owner object embedded in a product. It omits the
// owner's product list to avoid recursion.
type EmbeddedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type ProductPayload struct {
	ID    uint          `json:"id"`
	Title string        `json:"title"`
	Price string        `json:"price"`
	User  *EmbeddedUser `json:"user,omitempty"`
}

type OrderPayload struct {
	ID       uint             `json:"id"`
	Total    string           `json:"total"`
	Products []ProductPayload `json:"products"`
}

type SessionPayload struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	AuthToken string `json:"auth_token"`
}

type ErrorsPayload struct {
	Errors validation.Errors `json:"errors"`
}

func User(u *models.User) UserPayload {
	return UserPayload{
		ID:         u.ID,
		Email:      u.Email,
		ProductIDs: u.ProductIDs(),
	}
}

func Product(p *models.Product) ProductPayload {
	payload := ProductPayload{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price.String(),
	}
	if p.User != nil {
		payload.User = &EmbeddedUser{ID: p.User.ID, Email: p.User.Email}
	}
	return payload
}

func Products(products []models.Product) []ProductPayload {
	payloads := make([]ProductPayload, 0, len(products))
	for i := range products {
		payloads = append(payloads, Product(&products[i]))
	}
	return payloads
}

func Order(o *models.Order) OrderPayload {
	products := make([]ProductPayload, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Product == nil {
			continue
		}
		products = append(products, Product(item.Product))
	}
	return OrderPayload{
		ID:       o.ID,
		Total:    o.Total().String(),
		Products: products,
	}
}

func Orders(orders []models.Order) []OrderPayload {
	payloads := make([]OrderPayload, 0, len(orders))
	for i := range orders {
		payloads = append(payloads, Order(&orders[i]))
	}
	return payloads
}

func Session(u *models.User) SessionPayload {
	return SessionPayload{
		ID:        u.ID,
		Email:     u.Email,
		AuthToken: u.AuthToken,
	}
}

func ValidationErrors(err *validation.Error) ErrorsPayload {
	return ErrorsPayload{Errors: err.Fields}
}
