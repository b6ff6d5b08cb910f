package repo

import (
	"context"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
)

func (r *GormRepo) ListActiveGovernorates(ctx context.Context) ([]models.Governorate, error) {
	var out []models.Governorate
	err := r.DB.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "list active governorates")
	}
	return out, nil
}

func (r *GormRepo) ListGovernorates(ctx context.Context) ([]models.Governorate, error) {
	var out []models.Governorate
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "list governorates")
	}
	return out, nil
}

// FindGovernorateByID resolves inactive rows too.
func (r *GormRepo) FindGovernorateByID(ctx context.Context, id string) (*models.Governorate, error) {
	var g models.Governorate
	if err := r.DB.WithContext(ctx).Take(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find governorate")
	}
	return &g, nil
}

func (r *GormRepo) CreateGovernorate(ctx context.Context, g *models.Governorate) error {
	return translate(r.DB.WithContext(ctx).Create(g).Error, "create governorate")
}

// PatchGovernorate applies column updates keyed by column name.
func (r *GormRepo) PatchGovernorate(ctx context.Context, id string, updates map[string]any) (*models.Governorate, error) {
	var g models.Governorate
	err := r.InTx(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Take(&g, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.DB.Model(&g).Updates(updates).Error; err != nil {
			return err
		}
		return tx.DB.Take(&g, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "patch governorate")
	}
	return &g, nil
}

func (r *GormRepo) DeleteGovernorate(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Governorate{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete governorate")
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
