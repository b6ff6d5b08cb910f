package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/repo"
	"github.com/kindones/storefront/internal/search"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
)

// ErrSearchDisabled is returned by Search when no index is configured.
var ErrSearchDisabled = errors.New("menu search is not configured")

var (
	errNameRequired  = domain.Errorf(domain.ErrValidation, "Name is required.")
	errNegativePrice = domain.Errorf(domain.ErrValidation, "Price must not be negative.")
	errModifierLabel = domain.Errorf(domain.ErrValidation, "Modifier labels must be unique and non-empty.")
	errSlugTaken     = domain.Errorf(domain.ErrDuplicate, "A menu item with this name already exists.")
	errMenuNotFound  = domain.Errorf(domain.ErrNotFound, "Menu item not found.")
)

type MenuService struct {
	Repo  *repo.GormRepo
	Index *search.MenuIndex
}

func (svc *MenuService) ListActive(ctx context.Context, category string) ([]models.MenuItem, error) {
	return svc.Repo.ListActiveMenuItems(ctx, category)
}

// GetBySlug hides inactive items.
func (svc *MenuService) GetBySlug(ctx context.Context, slug string) (*models.MenuItem, error) {
	item, err := svc.Repo.FindMenuItemBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errMenuNotFound
		}
		return nil, err
	}
	if !item.Active {
		return nil, errMenuNotFound
	}
	return item, nil
}

// Search returns active items in relevance order.
func (svc *MenuService) Search(ctx context.Context, q string) ([]models.MenuItem, error) {
	hits, err := svc.Index.Search(ctx, q)
	if err != nil {
		if errors.Is(err, search.ErrDisabled) {
			return nil, ErrSearchDisabled
		}
		return nil, err
	}
	if len(hits) == 0 {
		return []models.MenuItem{}, nil
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	items, err := svc.Repo.FindActiveMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]models.MenuItem, 0, len(items))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (svc *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return svc.Repo.ListMenuItems(ctx)
}

func (svc *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := svc.Repo.GetMenuItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errMenuNotFound
	}
	return item, err
}

func (svc *MenuService) Create(ctx context.Context, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errNameRequired
	}
	if req.Price < 0 {
		return nil, errNegativePrice
	}
	mods, err := modifierOptions(req.Modifiers)
	if err != nil {
		return nil, err
	}

	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	item := &models.MenuItem{
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Image:       nonEmpty(req.Image),
		Price:       req.Price.Decimal(),
		Active:      req.Active == nil || *req.Active,
		Featured:    req.Featured,
		Modifiers:   mods,
	}

	if err := svc.Repo.CreateMenuItem(ctx, item, categoryOf(req.Category)); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errSlugTaken
		}
		return nil, err
	}
	svc.reindex(ctx, item)
	return item, nil
}

func (svc *MenuService) Patch(ctx context.Context, id string, req transport.PatchMenuItemRequest) (*models.MenuItem, error) {
	var p repo.MenuItemPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errNameRequired
		}
		slug := Slugify(name)
		p.Name, p.Slug = &name, &slug
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		p.Description = &d
	}
	if req.Image != nil {
		img := strings.TrimSpace(*req.Image)
		p.Image = &img
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errNegativePrice
		}
		d := req.Price.Decimal()
		p.Price = &d
	}
	p.Active = req.Active
	p.Featured = req.Featured
	if req.Category != nil {
		p.Category = categoryOf(*req.Category)
	}
	if req.Modifiers != nil {
		mods, err := modifierOptions(*req.Modifiers)
		if err != nil {
			return nil, err
		}
		p.Modifiers = &mods
	}

	item, err := svc.Repo.PatchMenuItem(ctx, id, p)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, errMenuNotFound
		case errors.Is(err, domain.ErrDuplicate):
			return nil, errSlugTaken
		}
		return nil, err
	}
	svc.reindex(ctx, item)
	return item, nil
}

func (svc *MenuService) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	deactivated, err = svc.Repo.DeleteMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, errMenuNotFound
		}
		return false, err
	}

	l := logging.FromContext(ctx).With("svc", "menu")
	if deactivated {
		if item, err := svc.Repo.GetMenuItem(ctx, id); err == nil {
			svc.reindex(ctx, item)
		}
	} else if err := svc.Index.Delete(ctx, id); err != nil {
		l.Warn("menu_unindex_failed", "menu_item_id", id, "error", err)
	}
	return deactivated, nil
}

func (svc *MenuService) reindex(ctx context.Context, item *models.MenuItem) {
	if err := svc.Index.Put(ctx, search.DocumentOf(item)); err != nil {
		logging.FromContext(ctx).With("svc", "menu").Warn("menu_index_failed", "menu_item_id", item.ID, "error", err)
	}
}

func categoryOf(name string) *models.Category {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &models.Category{Name: name, Slug: Slugify(name)}
}

func modifierOptions(in []transport.ModifierOption) ([]models.ModifierOption, error) {
	out := make([]models.ModifierOption, 0, len(in))
	seen := map[string]struct{}{}
	for _, m := range in {
		label := strings.TrimSpace(m.Label)
		if _, dup := seen[label]; dup || label == "" {
			return nil, errModifierLabel
		}
		seen[label] = struct{}{}
		out = append(out, models.ModifierOption{Label: label, PriceDelta: m.PriceDelta.Decimal()})
	}
	return out, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
