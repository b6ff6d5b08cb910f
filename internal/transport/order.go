package transport

import (
	"time"

	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

type ModifierSelection struct {
	Label      string     `json:"label"`
	PriceDelta money.Mils `json:"priceDelta"`
}

// OrderItemRequest carries no price: any price the client sends is dropped
// at decode time.
type OrderItemRequest struct {
	MenuItemID string              `json:"menuItemId"`
	Quantity   float64             `json:"quantity"`
	Modifiers  []ModifierSelection `json:"modifiers"`
}

type GuestDetails struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

type PlaceOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	Method        string             `json:"method"`
	PaymentMethod string             `json:"paymentMethod"`
	GovernorateID *string            `json:"governorateId"`
	Guest         *GuestDetails      `json:"guest"`
}

type OrderItemSummary struct {
	ID                string     `json:"id"`
	MenuItemID        string     `json:"menuItemId"`
	DisplayName       string     `json:"displayName"`
	UnitPrice         money.Mils `json:"unitPrice"`
	Quantity          int        `json:"quantity"`
	ModifiersSnapshot string     `json:"modifiersSnapshot"`
}

type Customer struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type OrderSummary struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Total         money.Mils         `json:"total"`
	DeliveryFee   money.Mils         `json:"deliveryFee"`
	DeliveryZone  *string            `json:"deliveryZone"`
	Method        string             `json:"method"`
	PaymentMethod string             `json:"paymentMethod"`
	Currency      string             `json:"currency"`
	CreatedAt     time.Time          `json:"createdAt"`
	Items         []OrderItemSummary `json:"items"`
	Customer      *Customer          `json:"customer,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderPage struct {
	Data []OrderSummary `json:"data"`
	Meta PageMeta       `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func OrderSummaryOf(o *models.Order) OrderSummary {
	items := make([]OrderItemSummary, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemSummary{
			ID:                it.ID,
			MenuItemID:        it.MenuItemID,
			DisplayName:       it.Name,
			UnitPrice:         money.FromDecimal(it.Price),
			Quantity:          it.Quantity,
			ModifiersSnapshot: it.Modifiers,
		})
	}
	return OrderSummary{
		ID:            o.ID,
		Status:        string(o.Status),
		Total:         money.FromDecimal(o.Total),
		DeliveryFee:   money.FromDecimal(o.DeliveryFee),
		DeliveryZone:  o.DeliveryZoneName,
		Method:        string(o.Method),
		PaymentMethod: string(o.PaymentMethod),
		Currency:      o.Currency,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}

// AdminOrderSummaryOf adds the customer block.
func AdminOrderSummaryOf(o *models.Order) OrderSummary {
	s := OrderSummaryOf(o)
	if o.User != nil {
		s.Customer = &Customer{ID: o.User.ID, Email: o.User.Email, Name: o.User.Name, Phone: o.User.Phone}
	}
	return s
}

func OrderSummaries(orders []models.Order, admin bool) []OrderSummary {
	out := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		if admin {
			out = append(out, AdminOrderSummaryOf(&orders[i]))
		} else {
			out = append(out, OrderSummaryOf(&orders[i]))
		}
	}
	return out
}
