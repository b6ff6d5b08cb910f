package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
)

const (
	MaxFeatured = 7

	featuredLockKey = 7_100_001
)

// MenuItemPatch holds the fields an admin may change. Nil means unchanged.
type MenuItemPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Image       *string
	Price       *decimal.Decimal
	Active      *bool
	Featured    *bool
	Category    *models.Category
	Modifiers   *[]models.ModifierOption
}

// FindActiveMenuItemsByIDs returns the active subset of ids. Missing ids are
// simply absent from the result. Rows are share-locked on postgres so prices
// cannot change under an open order transaction.
func (r *GormRepo) FindActiveMenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Modifiers").
		Where("id IN ? AND active = ?", ids, true)
	if r.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}
	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err, "find active menu items")
	}
	return items, nil
}

func (r *GormRepo) FindMenuItemBySlug(ctx context.Context, slug string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Modifiers").
		Take(&item, "slug = ?", slug).Error
	if err != nil {
		return nil, translate(err, "find menu item by slug")
	}
	return &item, nil
}

// ListActiveMenuItems returns active items, newest first. A non-empty category
// matches either the category name or its slug.
func (r *GormRepo) ListActiveMenuItems(ctx context.Context, category string) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Modifiers").
		Where("active = ?", true)
	if category = strings.TrimSpace(category); category != "" {
		sub := r.DB.Model(&models.Category{}).
			Select("id").
			Where("name = ? OR slug = ?", category, strings.ToLower(category))
		q = q.Where("category_id IN (?)", sub)
	}
	var items []models.MenuItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, translate(err, "list active menu items")
	}
	return items, nil
}

func (r *GormRepo) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Modifiers").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "list menu items")
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Modifiers").
		Take(&item, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get menu item")
	}
	return &item, nil
}

// CreateMenuItem upserts the category by slug and inserts the item with its
// modifier options.
func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem, category *models.Category) error {
	err := r.InTx(ctx, func(tx *GormRepo) error {
		if item.Featured {
			if err := tx.checkFeaturedRoom(""); err != nil {
				return err
			}
		}
		if category != nil {
			cat, err := tx.upsertCategory(category)
			if err != nil {
				return err
			}
			item.CategoryID = &cat.ID
		}
		item.Category = nil
		if err := tx.DB.Create(item).Error; err != nil {
			return err
		}
		return tx.DB.Preload("Category").Preload("Modifiers").Take(item, "id = ?", item.ID).Error
	})
	return translate(err, "create menu item")
}

// PatchMenuItem applies p inside one transaction. Turning featured on
// recounts the other featured rows under a lock.
func (r *GormRepo) PatchMenuItem(ctx context.Context, id string, p MenuItemPatch) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.InTx(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Take(&item, "id = ?", id).Error; err != nil {
			return err
		}
		if p.Featured != nil && *p.Featured && !item.Featured {
			if err := tx.checkFeaturedRoom(id); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if p.Name != nil {
			updates["name"] = *p.Name
		}
		if p.Slug != nil {
			updates["slug"] = *p.Slug
		}
		if p.Description != nil {
			updates["description"] = *p.Description
		}
		if p.Image != nil {
			if *p.Image == "" {
				updates["image"] = nil
			} else {
				updates["image"] = *p.Image
			}
		}
		if p.Price != nil {
			updates["price"] = *p.Price
		}
		if p.Active != nil {
			updates["active"] = *p.Active
		}
		if p.Featured != nil {
			updates["featured"] = *p.Featured
		}
		if p.Category != nil {
			cat, err := tx.upsertCategory(p.Category)
			if err != nil {
				return err
			}
			updates["category_id"] = cat.ID
		}
		if len(updates) > 0 {
			if err := tx.DB.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}

		if p.Modifiers != nil {
			if err := tx.DB.Where("menu_item_id = ?", id).Delete(&models.ModifierOption{}).Error; err != nil {
				return err
			}
			for i := range *p.Modifiers {
				opt := (*p.Modifiers)[i]
				opt.ID = ""
				opt.MenuItemID = id
				if err := tx.DB.Create(&opt).Error; err != nil {
					return err
				}
			}
		}

		return tx.DB.Preload("Category").Preload("Modifiers").Take(&item, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "patch menu item")
	}
	return &item, nil
}

// DeleteMenuItem hard-deletes an item no order references. Referenced items
// are deactivated and unfeatured instead; deactivated reports which happened.
func (r *GormRepo) DeleteMenuItem(ctx context.Context, id string) (deactivated bool, err error) {
	err = r.InTx(ctx, func(tx *GormRepo) error {
		var item models.MenuItem
		if err := tx.DB.Take(&item, "id = ?", id).Error; err != nil {
			return err
		}

		var refs int64
		if err := tx.DB.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			deactivated = true
			return tx.DB.Model(&item).Updates(map[string]any{"active": false, "featured": false}).Error
		}

		if err := tx.DB.Where("menu_item_id = ?", id).Delete(&models.ModifierOption{}).Error; err != nil {
			return err
		}
		return tx.DB.Delete(&item).Error
	})
	return deactivated, translate(err, "delete menu item")
}

func (r *GormRepo) CountFeatured(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("featured = ?", true).Count(&n).Error
	return n, translate(err, "count featured")
}

// checkFeaturedRoom must run inside a transaction. On postgres an advisory
// lock serializes concurrent toggles; sqlite already serializes writers.
func (r *GormRepo) checkFeaturedRoom(excludeID string) error {
	if r.isPostgres() {
		if err := r.DB.Exec("SELECT pg_advisory_xact_lock(?)", featuredLockKey).Error; err != nil {
			return fmt.Errorf("featured lock: %w", err)
		}
	}
	q := r.DB.Model(&models.MenuItem{}).Where("featured = ?", true)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n >= MaxFeatured {
		return domain.ErrFeatureLimitExceeded
	}
	return nil
}

func (r *GormRepo) upsertCategory(c *models.Category) (*models.Category, error) {
	var cat models.Category
	err := r.DB.
		Where(models.Category{Slug: c.Slug}).
		Assign(models.Category{Name: c.Name}).
		FirstOrCreate(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}
