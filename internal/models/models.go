package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"           json:"id"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Name         *string   `                                             json:"name,omitempty"`
	Phone        *string   `                                             json:"phone,omitempty"`
	PasswordHash *string   `                                             json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null"             json:"role"`
	CreatedAt    time.Time `gorm:"not null"                              json:"createdAt"`

	// CredentialsPending marks a guest account whose one-time password has
	// not been handed to the mailer yet.
	CredentialsPending bool `gorm:"not null;default:false" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

type Category struct {
	ID   string `gorm:"type:varchar(36);primaryKey"  json:"id"`
	Name string `gorm:"uniqueIndex;not null"         json:"name"`
	Slug string `gorm:"uniqueIndex;not null"         json:"slug"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID          string           `gorm:"type:varchar(36);primaryKey"`
	Slug        string           `gorm:"uniqueIndex;not null"`
	Name        string           `gorm:"not null"`
	Description string           `gorm:"not null"`
	Image       *string
	Price       decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	CategoryID  *string          `gorm:"type:varchar(36);index"`
	Category    *Category
	Active      bool             `gorm:"not null;index"`
	Featured    bool             `gorm:"not null;index"`
	Modifiers   []ModifierOption `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ModifierOption is a priced selection the kitchen offers for one menu item.
type ModifierOption struct {
	ID         string          `gorm:"type:varchar(36);primaryKey"`
	MenuItemID string          `gorm:"type:varchar(36);not null;uniqueIndex:ux_modifier_item_label"`
	Label      string          `gorm:"not null;uniqueIndex:ux_modifier_item_label"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (m *ModifierOption) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Governorate struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null"        json:"name"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"deliveryFee"`
	Active      bool            `gorm:"not null;index"              json:"active"`
	CreatedAt   time.Time       `gorm:"not null"                    json:"createdAt"`
}

func (g *Governorate) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

type Method string

const (
	MethodDelivery Method = "DELIVERY"
	MethodPickup   Method = "PICKUP"
)

func (m Method) Valid() bool {
	return m == MethodDelivery || m == MethodPickup
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentCash PaymentMethod = "CASH"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCard || p == PaymentCash
}

const CurrencyKWD = "KWD"

type Order struct {
	ID               string          `gorm:"type:varchar(36);primaryKey"`
	UserID           string          `gorm:"type:varchar(36);not null;index"`
	User             *User
	Status           OrderStatus     `gorm:"type:varchar(24);not null;index"`
	Total            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	DeliveryFee      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	DeliveryZoneName *string
	Method           Method          `gorm:"type:varchar(16);not null"`
	PaymentMethod    PaymentMethod   `gorm:"type:varchar(16);not null"`
	Currency         string          `gorm:"type:char(3);not null"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"not null;index"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Currency == "" {
		o.Currency = CurrencyKWD
	}
	return nil
}

// OrderItem keeps frozen copies of the menu item's name and price.
type OrderItem struct {
	ID         string          `gorm:"type:varchar(36);primaryKey"`
	OrderID    string          `gorm:"type:varchar(36);not null;index"`
	MenuItemID string          `gorm:"type:varchar(36);not null;index"`
	Position   int             `gorm:"not null"`
	Name       string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Quantity   int             `gorm:"not null;check:quantity>0"`
	Modifiers  string          `gorm:"type:text;not null"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&MenuItem{},
		&ModifierOption{},
		&Governorate{},
		&Order{},
		&OrderItem{},
	)
}
