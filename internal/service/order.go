package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/events"
	"github.com/kindones/storefront/internal/identity"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
	"github.com/kindones/storefront/internal/notify"
	"github.com/kindones/storefront/internal/pricing"
	"github.com/kindones/storefront/internal/repo"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
)

const publishTimeout = 5 * time.Second

type Notifier interface {
	Enqueue(c notify.Confirmation) bool
}

type OrderService struct {
	Repo     *repo.GormRepo
	Identity *identity.Resolver
	Notifier Notifier
	Events   events.Publisher

	StrictModifiers bool
}

// PlaceOrder validates, resolves the buyer, reprices and persists in one
// transaction. Notification and events happen only after commit.
func (svc *OrderService) PlaceOrder(ctx context.Context, req transport.PlaceOrderRequest, sess *domain.Session) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order")

	basket, payment, err := basketOf(req)
	if err != nil {
		return nil, err
	}

	var guest *identity.Guest
	if req.Guest != nil {
		guest = &identity.Guest{Email: req.Guest.Email, DisplayName: req.Guest.DisplayName, Phone: req.Guest.Phone}
	}
	who, err := svc.Identity.Resolve(ctx, sess, guest)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = svc.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		engine := pricing.Engine{Catalog: tx, StrictModifiers: svc.StrictModifiers}
		priced, err := engine.Price(ctx, basket)
		if err != nil {
			return err
		}
		order = orderOf(who.UserID, basket.Method, payment, priced)
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	l.Info("order_placed", "order_id", order.ID, "user_id", order.UserID, "total", money.FromDecimal(order.Total).String())

	svc.afterCommit(ctx, l, order, who)
	return order, nil
}

func basketOf(req transport.PlaceOrderRequest) (pricing.Basket, models.PaymentMethod, error) {
	if len(req.Items) == 0 {
		return pricing.Basket{}, "", domain.ErrEmptyBasket
	}
	method := models.Method(strings.ToUpper(strings.TrimSpace(req.Method)))
	payment := models.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	if !method.Valid() || !payment.Valid() {
		return pricing.Basket{}, "", domain.ErrMalformedOrder
	}

	b := pricing.Basket{
		Lines:  make([]pricing.LineRequest, 0, len(req.Items)),
		Method: method,
	}
	if req.GovernorateID != nil {
		b.GovernorateID = strings.TrimSpace(*req.GovernorateID)
	}
	for _, it := range req.Items {
		line := pricing.LineRequest{MenuItemID: strings.TrimSpace(it.MenuItemID), Quantity: it.Quantity}
		if line.MenuItemID == "" {
			return pricing.Basket{}, "", domain.ErrUnknownItems
		}
		for _, m := range it.Modifiers {
			line.Modifiers = append(line.Modifiers, pricing.Modifier{Label: m.Label, PriceDelta: m.PriceDelta})
		}
		b.Lines = append(b.Lines, line)
	}
	return b, payment, nil
}

func orderOf(userID string, method models.Method, payment models.PaymentMethod, p *pricing.Result) *models.Order {
	items := make([]models.OrderItem, 0, len(p.Lines))
	for i, line := range p.Lines {
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Position:   i,
			Name:       line.DisplayName,
			Price:      line.UnitPrice.Decimal(),
			Quantity:   line.Quantity,
			Modifiers:  line.ModifiersSnapshot,
		})
	}

	o := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusPending,
		Total:         p.GrandTotal.Decimal(),
		DeliveryFee:   p.DeliveryFee.Decimal(),
		Method:        method,
		PaymentMethod: payment,
		Currency:      models.CurrencyKWD,
		Items:         items,
	}
	if p.Governorate != nil {
		zone := p.Governorate.Name
		o.DeliveryZoneName = &zone
	}
	return o
}

func (svc *OrderService) afterCommit(ctx context.Context, l *slog.Logger, order *models.Order, who *identity.Identity) {
	if ctx.Err() != nil {
		l.Warn("notification_skipped", "order_id", order.ID, "reason", ctx.Err().Error())
	} else {
		svc.notify(ctx, l, order, who)
	}

	svc.publish(ctx, l, order.ID, events.OrderPlaced{
		Type:          events.TypeOrderPlaced,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         money.FromDecimal(order.Total),
		DeliveryFee:   money.FromDecimal(order.DeliveryFee),
		Method:        string(order.Method),
		PaymentMethod: string(order.PaymentMethod),
		Items:         len(order.Items),
		At:            order.CreatedAt,
	})
}

func (svc *OrderService) notify(ctx context.Context, l *slog.Logger, order *models.Order, who *identity.Identity) {
	if svc.Notifier == nil {
		return
	}
	email, name := who.Email, who.Name
	if email == "" {
		u, err := svc.Repo.FindUserByID(ctx, who.UserID)
		if err != nil {
			l.Warn("notification_skipped", "order_id", order.ID, "reason", "recipient lookup failed", "error", err)
			return
		}
		email = u.Email
		if name == "" && u.Name != nil {
			name = *u.Name
		}
	}

	queued := svc.Notifier.Enqueue(notify.Confirmation{
		RecipientEmail:  email,
		RecipientName:   name,
		OrderID:         order.ID,
		OneTimePassword: who.OneTimePassword,
	})
	if !queued {
		l.Warn("notification_dropped", "order_id", order.ID, "reason", "queue full")
		return
	}
	if who.OneTimePassword != "" {
		if err := svc.Repo.MarkCredentialsSent(ctx, who.UserID); err != nil {
			l.Warn("credentials_mark_failed", "user_id", who.UserID, "error", err)
		}
	}
}

func (svc *OrderService) publish(ctx context.Context, l *slog.Logger, key string, event any) {
	if svc.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := svc.Events.Publish(pctx, key, event); err != nil {
		l.Error("event_publish_failed", "key", key, "error", err)
	}
}

func (svc *OrderService) ListOrders(ctx context.Context, sess *domain.Session) ([]models.Order, error) {
	if !sess.Authenticated() {
		return nil, domain.Errorf(domain.ErrUnauthenticated, "Unauthorized")
	}
	return svc.Repo.ListOrdersByUser(ctx, sess.UserID)
}

func (svc *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return svc.Repo.ListOrders(ctx, limit, offset)
}

func (svc *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return svc.Repo.GetOrder(ctx, id)
}

func (svc *OrderService) UpdateStatus(ctx context.Context, id string, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order")

	next := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "Invalid status.")
	}

	order, prev, err := svc.Repo.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	l.Info("order_status_changed", "order_id", id, "from", prev, "to", next)

	svc.publish(ctx, l, id, events.OrderStatusChanged{
		Type:    events.TypeOrderStatusChanged,
		OrderID: id,
		From:    string(prev),
		To:      string(next),
		At:      time.Now().UTC(),
	})
	return order, nil
}
