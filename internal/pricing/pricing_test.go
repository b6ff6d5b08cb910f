package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

type fakeCatalog struct {
	items        map[string]models.MenuItem
	governorates map[string]models.Governorate
	calls        int
	err          error
}

func (f *fakeCatalog) FindActiveMenuItemsByIDs(_ context.Context, ids []string) ([]models.MenuItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MenuItem
	for _, id := range ids {
		if it, ok := f.items[id]; ok && it.Active {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindGovernorateByID(_ context.Context, id string) (*models.Governorate, error) {
	g, ok := f.governorates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		items: map[string]models.MenuItem{
			"A":    {ID: "A", Name: "Classic", Price: dec("1.400"), Active: true},
			"B":    {ID: "B", Name: "Fries", Price: dec("1.600"), Active: true},
			"OFF":  {ID: "OFF", Name: "Retired", Price: dec("1.000"), Active: false},
			"FREE": {ID: "FREE", Name: "Sample", Price: decimal.Zero, Active: true},
			"OPT": {
				ID: "OPT", Name: "Wrap", Price: dec("1.000"), Active: true,
				Modifiers: []models.ModifierOption{
					{Label: "Cheese", PriceDelta: dec("0.250")},
					{Label: "No sauce", PriceDelta: dec("-0.100")},
				},
			},
		},
		governorates: map[string]models.Governorate{
			"G1":   {ID: "G1", Name: "Hawalli", DeliveryFee: dec("1.000"), Active: true},
			"G-IN": {ID: "G-IN", Name: "Jahra", DeliveryFee: dec("2.000"), Active: false},
		},
	}
}

func TestPrice_DeliveryScenario(t *testing.T) {
	cat := newCatalog()
	e := &Engine{Catalog: cat}

	res, err := e.Price(context.Background(), Basket{
		Lines: []LineRequest{
			{MenuItemID: "A", Quantity: 2, Modifiers: []Modifier{{Label: "Cheese", PriceDelta: money.MustParse("0.600")}}},
			{MenuItemID: "B", Quantity: 1},
		},
		Method:        models.MethodDelivery,
		GovernorateID: "G1",
	})
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, money.MustParse("2.000"), res.Lines[0].UnitPrice)
	assert.Equal(t, money.MustParse("4.000"), res.Lines[0].LineTotal)
	assert.Equal(t, `[{"label":"Cheese","priceDelta":0.600}]`, res.Lines[0].ModifiersSnapshot)
	assert.Equal(t, money.MustParse("1.600"), res.Lines[1].LineTotal)
	assert.Equal(t, "[]", res.Lines[1].ModifiersSnapshot)
	assert.Equal(t, money.MustParse("5.600"), res.Subtotal)
	assert.Equal(t, money.MustParse("1.000"), res.DeliveryFee)
	assert.Equal(t, money.MustParse("6.600"), res.GrandTotal)
	assert.Equal(t, "Hawalli", res.Governorate.Name)
	assert.Equal(t, 1, cat.calls)
}

func TestPrice_Quantity(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.9, 2},
		{1, 1},
		{0, 1},
		{-4, 1},
		{0.5, 1},
	}
	e := &Engine{Catalog: newCatalog()}
	for _, tt := range tests {
		res, err := e.Price(context.Background(), Basket{
			Lines:  []LineRequest{{MenuItemID: "A", Quantity: tt.in}},
			Method: models.MethodPickup,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Lines[0].Quantity, "quantity %v", tt.in)
	}

	_, err := e.Price(context.Background(), Basket{
		Lines:  []LineRequest{{MenuItemID: "A", Quantity: 1e12}},
		Method: models.MethodPickup,
	})
	require.ErrorIs(t, err, domain.ErrInvalidBasket)
}

func TestPrice_DuplicateLinesAreNotMerged(t *testing.T) {
	cat := newCatalog()
	e := &Engine{Catalog: cat}

	res, err := e.Price(context.Background(), Basket{
		Lines:  []LineRequest{{MenuItemID: "A", Quantity: 1}, {MenuItemID: "A", Quantity: 1}},
		Method: models.MethodPickup,
	})
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assert.Equal(t, money.MustParse("2.800"), res.GrandTotal)
	assert.Equal(t, 1, cat.calls)
}

func TestPrice_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		basket Basket
		want   error
	}{
		{
			name:   "empty",
			basket: Basket{Method: models.MethodPickup},
			want:   domain.ErrEmptyBasket,
		},
		{
			name:   "unknown id",
			basket: Basket{Lines: []LineRequest{{MenuItemID: "nope", Quantity: 1}}, Method: models.MethodPickup},
			want:   domain.ErrUnknownItems,
		},
		{
			name:   "inactive id",
			basket: Basket{Lines: []LineRequest{{MenuItemID: "OFF", Quantity: 1}}, Method: models.MethodPickup},
			want:   domain.ErrUnknownItems,
		},
		{
			name: "negative unit price",
			basket: Basket{Lines: []LineRequest{{
				MenuItemID: "A", Quantity: 1,
				Modifiers: []Modifier{{Label: "Discount", PriceDelta: money.MustParse("-2.000")}},
			}}, Method: models.MethodPickup},
			want: domain.ErrNegativePrice,
		},
		{
			name:   "delivery without governorate",
			basket: Basket{Lines: []LineRequest{{MenuItemID: "A", Quantity: 1}}, Method: models.MethodDelivery},
			want:   domain.ErrInvalidGovernorate,
		},
		{
			name:   "inactive governorate",
			basket: Basket{Lines: []LineRequest{{MenuItemID: "A", Quantity: 1}}, Method: models.MethodDelivery, GovernorateID: "G-IN"},
			want:   domain.ErrInvalidGovernorate,
		},
		{
			name:   "unknown governorate",
			basket: Basket{Lines: []LineRequest{{MenuItemID: "A", Quantity: 1}}, Method: models.MethodDelivery, GovernorateID: "nope"},
			want:   domain.ErrInvalidGovernorate,
		},
		{
			name: "unknown configured modifier",
			basket: Basket{Lines: []LineRequest{{
				MenuItemID: "OPT", Quantity: 1,
				Modifiers: []Modifier{{Label: "Gold leaf", PriceDelta: 0}},
			}}, Method: models.MethodPickup},
			want: domain.ErrUnknownItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Engine{Catalog: newCatalog()}
			_, err := e.Price(context.Background(), tt.basket)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, domain.ErrInvalidBasket)
		})
	}
}

func TestPrice_ConfiguredModifiersUseServerDelta(t *testing.T) {
	e := &Engine{Catalog: newCatalog()}

	res, err := e.Price(context.Background(), Basket{
		Lines: []LineRequest{{
			MenuItemID: "OPT", Quantity: 3,
			Modifiers: []Modifier{
				{Label: "No sauce", PriceDelta: money.MustParse("-0.900")},
				{Label: "Cheese", PriceDelta: 0},
			},
		}},
		Method: models.MethodPickup,
	})
	require.NoError(t, err)
	assert.Equal(t, money.MustParse("1.150"), res.Lines[0].UnitPrice)
	assert.Equal(t, money.MustParse("3.450"), res.GrandTotal)
	assert.Equal(t, `[{"label":"No sauce","priceDelta":-0.100},{"label":"Cheese","priceDelta":0.250}]`, res.Lines[0].ModifiersSnapshot)
}

func TestPrice_StrictModifiersRejectUnconfigured(t *testing.T) {
	e := &Engine{Catalog: newCatalog(), StrictModifiers: true}

	_, err := e.Price(context.Background(), Basket{
		Lines: []LineRequest{{
			MenuItemID: "A", Quantity: 1,
			Modifiers: []Modifier{{Label: "Cheese", PriceDelta: money.MustParse("0.600")}},
		}},
		Method: models.MethodPickup,
	})
	require.ErrorIs(t, err, domain.ErrInvalidBasket)
}

func TestPrice_FreeTrialZeroTotal(t *testing.T) {
	e := &Engine{Catalog: newCatalog()}

	res, err := e.Price(context.Background(), Basket{
		Lines:  []LineRequest{{MenuItemID: "FREE", Quantity: 1}},
		Method: models.MethodPickup,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Mils(0), res.GrandTotal)
}

func TestPrice_CatalogFailureIsNotABasketError(t *testing.T) {
	cat := newCatalog()
	cat.err = errors.New("connection reset")
	e := &Engine{Catalog: cat}

	_, err := e.Price(context.Background(), Basket{
		Lines:  []LineRequest{{MenuItemID: "A", Quantity: 1}},
		Method: models.MethodPickup,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidBasket)
}

func TestPrice_AmountsBeyondColumnAreMalformed(t *testing.T) {
	tests := []struct {
		name string
		line LineRequest
	}{
		{
			name: "delta that would wrap the line total",
			line: LineRequest{MenuItemID: "FREE", Quantity: 4, Modifiers: []Modifier{{Label: "Huge", PriceDelta: 4_611_686_018_427_387_904}}},
		},
		{
			name: "delta past the column",
			line: LineRequest{MenuItemID: "A", Quantity: 1, Modifiers: []Modifier{{Label: "Huge", PriceDelta: money.Max}}},
		},
		{
			name: "line total past the column",
			line: LineRequest{MenuItemID: "A", Quantity: MaxQuantity, Modifiers: []Modifier{{Label: "Big", PriceDelta: money.MustParse("999999.999")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Engine{Catalog: newCatalog()}
			res, err := e.Price(context.Background(), Basket{Lines: []LineRequest{tt.line}, Method: models.MethodPickup})
			require.ErrorIs(t, err, domain.ErrMalformedOrder)
			require.ErrorIs(t, err, domain.ErrInvalidBasket)
			assert.Nil(t, res)
		})
	}

	e := &Engine{Catalog: newCatalog()}
	res, err := e.Price(context.Background(), Basket{
		Lines:  []LineRequest{{MenuItemID: "FREE", Quantity: 1, Modifiers: []Modifier{{Label: "Top", PriceDelta: money.Max}}}},
		Method: models.MethodPickup,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Max, res.GrandTotal)
}
