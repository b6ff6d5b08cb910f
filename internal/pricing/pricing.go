// Package pricing recomputes a basket's totals from authoritative menu and
// governorate rows. Client-submitted prices never enter the result.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

// MaxQuantity bounds a single line so money arithmetic cannot overflow.
const MaxQuantity = 1_000_000

type Catalog interface {
	FindActiveMenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
	FindGovernorateByID(ctx context.Context, id string) (*models.Governorate, error)
}

type Modifier struct {
	Label      string     `json:"label"`
	PriceDelta money.Mils `json:"priceDelta"`
}

type LineRequest struct {
	MenuItemID string
	Quantity   float64
	Modifiers  []Modifier
}

type Basket struct {
	Lines         []LineRequest
	Method        models.Method
	GovernorateID string
}

type Line struct {
	MenuItemID        string
	DisplayName       string
	UnitPrice         money.Mils
	Quantity          int
	LineTotal         money.Mils
	ModifiersSnapshot string
}

type Result struct {
	Lines       []Line
	Subtotal    money.Mils
	DeliveryFee money.Mils
	GrandTotal  money.Mils
	Governorate *models.Governorate
}

type Engine struct {
	Catalog Catalog

	// StrictModifiers rejects modifiers on items that have no configured
	// options instead of trusting the submitted delta.
	StrictModifiers bool
}

func (e *Engine) Price(ctx context.Context, b Basket) (*Result, error) {
	if len(b.Lines) == 0 {
		return nil, domain.ErrEmptyBasket
	}

	ids := make([]string, 0, len(b.Lines))
	seen := make(map[string]struct{}, len(b.Lines))
	for _, l := range b.Lines {
		if _, ok := seen[l.MenuItemID]; ok {
			continue
		}
		seen[l.MenuItemID] = struct{}{}
		ids = append(ids, l.MenuItemID)
	}

	items, err := e.Catalog.FindActiveMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	byID := make(map[string]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range ids {
		if item, ok := byID[id]; !ok || !item.Active {
			return nil, domain.ErrUnknownItems
		}
	}

	res := &Result{Lines: make([]Line, 0, len(b.Lines))}
	for _, req := range b.Lines {
		line, err := e.priceLine(byID[req.MenuItemID], req)
		if err != nil {
			return nil, err
		}
		res.Subtotal += line.LineTotal
		if !res.Subtotal.InRange() {
			return nil, domain.ErrMalformedOrder
		}
		res.Lines = append(res.Lines, line)
	}

	switch b.Method {
	case models.MethodPickup:
		res.DeliveryFee = 0
	case models.MethodDelivery:
		g, err := e.governorate(ctx, b.GovernorateID)
		if err != nil {
			return nil, err
		}
		res.Governorate = g
		res.DeliveryFee = money.FromDecimal(g.DeliveryFee)
	default:
		return nil, domain.ErrMalformedOrder
	}

	// Both parts are non-negative, so a zero total always has a zero fee.
	res.GrandTotal = res.Subtotal + res.DeliveryFee
	if !res.GrandTotal.InRange() {
		return nil, domain.ErrMalformedOrder
	}
	return res, nil
}

func (e *Engine) priceLine(item *models.MenuItem, req LineRequest) (Line, error) {
	qty, err := quantity(req.Quantity)
	if err != nil {
		return Line{}, err
	}

	unit := money.FromDecimal(item.Price)
	applied := make([]Modifier, 0, len(req.Modifiers))
	for _, mod := range req.Modifiers {
		delta, err := e.modifierDelta(item, mod)
		if err != nil {
			return Line{}, err
		}
		if !delta.InRange() {
			return Line{}, domain.ErrMalformedOrder
		}
		unit += delta
		if !unit.InRange() {
			return Line{}, domain.ErrMalformedOrder
		}
		applied = append(applied, Modifier{Label: mod.Label, PriceDelta: delta})
	}
	if unit < 0 {
		return Line{}, domain.ErrNegativePrice
	}
	if unit > 0 && unit > money.Max/money.Mils(qty) {
		return Line{}, domain.ErrMalformedOrder
	}

	snapshot, err := snapshotModifiers(applied)
	if err != nil {
		return Line{}, err
	}

	return Line{
		MenuItemID:        item.ID,
		DisplayName:       item.Name,
		UnitPrice:         unit,
		Quantity:          qty,
		LineTotal:         unit.Mul(qty),
		ModifiersSnapshot: snapshot,
	}, nil
}

// modifierDelta resolves the delta from configured options by label when the
// item has any. Otherwise the submitted delta is kept unless strict.
func (e *Engine) modifierDelta(item *models.MenuItem, mod Modifier) (money.Mils, error) {
	if len(item.Modifiers) == 0 {
		if e.StrictModifiers {
			return 0, domain.ErrUnknownItems
		}
		return mod.PriceDelta, nil
	}
	for _, opt := range item.Modifiers {
		if opt.Label == mod.Label {
			return money.FromDecimal(opt.PriceDelta), nil
		}
	}
	return 0, domain.ErrUnknownItems
}

func (e *Engine) governorate(ctx context.Context, id string) (*models.Governorate, error) {
	if id == "" {
		return nil, domain.ErrInvalidGovernorate
	}
	g, err := e.Catalog.FindGovernorateByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidGovernorate
		}
		return nil, fmt.Errorf("load governorate: %w", err)
	}
	if !g.Active {
		return nil, domain.ErrInvalidGovernorate
	}
	return g, nil
}

// quantity floors q and lifts anything below one to one.
func quantity(q float64) (int, error) {
	if math.IsNaN(q) || math.IsInf(q, 0) || q > MaxQuantity {
		return 0, domain.ErrMalformedOrder
	}
	n := int(math.Floor(q))
	if n < 1 {
		n = 1
	}
	return n, nil
}

// snapshotModifiers serializes the selections in submission order with the
// deltas that were charged.
func snapshotModifiers(mods []Modifier) (string, error) {
	if len(mods) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(mods)
	if err != nil {
		return "", fmt.Errorf("snapshot modifiers: %w", err)
	}
	return string(b), nil
}
