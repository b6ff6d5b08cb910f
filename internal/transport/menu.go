package transport

import (
	"time"

	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ModifierOption struct {
	Label      string     `json:"label"`
	PriceDelta money.Mils `json:"priceDelta"`
}

type MenuItemResponse struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Name        string            `json:"displayName"`
	Description string            `json:"description"`
	Image       *string           `json:"image"`
	Price       money.Mils        `json:"unitPrice"`
	Category    *CategoryResponse `json:"category"`
	Active      bool              `json:"active"`
	Featured    bool              `json:"featured"`
	Modifiers   []ModifierOption  `json:"modifiers"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type CreateMenuItemRequest struct {
	Name        string           `json:"displayName"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Image       *string          `json:"image"`
	Price       money.Mils       `json:"unitPrice"`
	Category    string           `json:"category"`
	Active      *bool            `json:"active"`
	Featured    bool             `json:"featured"`
	Modifiers   []ModifierOption `json:"modifiers"`
}

type PatchMenuItemRequest struct {
	Name        *string           `json:"displayName"`
	Description *string           `json:"description"`
	Image       *string           `json:"image"`
	Price       *money.Mils       `json:"unitPrice"`
	Category    *string           `json:"category"`
	Active      *bool             `json:"active"`
	Featured    *bool             `json:"featured"`
	Modifiers   *[]ModifierOption `json:"modifiers"`
}

type DeleteMenuItemResponse struct {
	ID          string `json:"id"`
	Deleted     bool   `json:"deleted"`
	Deactivated bool   `json:"deactivated"`
}

func MenuItemOf(m *models.MenuItem) MenuItemResponse {
	mods := make([]ModifierOption, 0, len(m.Modifiers))
	for _, o := range m.Modifiers {
		mods = append(mods, ModifierOption{Label: o.Label, PriceDelta: money.FromDecimal(o.PriceDelta)})
	}
	r := MenuItemResponse{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		Price:       money.FromDecimal(m.Price),
		Active:      m.Active,
		Featured:    m.Featured,
		Modifiers:   mods,
		CreatedAt:   m.CreatedAt,
	}
	if m.Category != nil {
		r.Category = &CategoryResponse{ID: m.Category.ID, Name: m.Category.Name, Slug: m.Category.Slug}
	}
	return r
}

func MenuItems(items []models.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, MenuItemOf(&items[i]))
	}
	return out
}
