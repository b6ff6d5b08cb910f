package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kindones/storefront/internal/cache"
	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/repo"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
)

var (
	errNegativeFee         = domain.Errorf(domain.ErrValidation, "Delivery fee must not be negative.")
	errGovernorateTaken    = domain.Errorf(domain.ErrDuplicate, "A governorate with this name already exists.")
	errGovernorateNotFound = domain.Errorf(domain.ErrNotFound, "Governorate not found.")
)

type GovernorateService struct {
	Repo  *repo.GormRepo
	Cache cache.GovernorateCache
}

// ListActive reads through the cache. Cache failures fall back to the
// database.
func (svc *GovernorateService) ListActive(ctx context.Context) ([]models.Governorate, error) {
	l := logging.FromContext(ctx).With("svc", "governorate")

	gs, err := svc.Cache.GetActive(ctx)
	if err == nil {
		return gs, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		l.Warn("governorate_cache_get_failed", "error", err)
	}

	gs, err = svc.Repo.ListActiveGovernorates(ctx)
	if err != nil {
		return nil, err
	}
	if err := svc.Cache.SetActive(ctx, gs); err != nil {
		l.Warn("governorate_cache_set_failed", "error", err)
	}
	return gs, nil
}

func (svc *GovernorateService) List(ctx context.Context) ([]models.Governorate, error) {
	return svc.Repo.ListGovernorates(ctx)
}

func (svc *GovernorateService) Create(ctx context.Context, req transport.CreateGovernorateRequest) (*models.Governorate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errNameRequired
	}
	if req.DeliveryFee < 0 {
		return nil, errNegativeFee
	}
	g := &models.Governorate{
		Name:        name,
		DeliveryFee: req.DeliveryFee.Decimal(),
		Active:      req.Active == nil || *req.Active,
	}
	if err := svc.Repo.CreateGovernorate(ctx, g); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errGovernorateTaken
		}
		return nil, err
	}
	svc.invalidate(ctx)
	return g, nil
}

func (svc *GovernorateService) Patch(ctx context.Context, id string, req transport.PatchGovernorateRequest) (*models.Governorate, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errNameRequired
		}
		updates["name"] = name
	}
	if req.DeliveryFee != nil {
		if *req.DeliveryFee < 0 {
			return nil, errNegativeFee
		}
		updates["delivery_fee"] = req.DeliveryFee.Decimal()
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	g, err := svc.Repo.PatchGovernorate(ctx, id, updates)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, errGovernorateNotFound
		case errors.Is(err, domain.ErrDuplicate):
			return nil, errGovernorateTaken
		}
		return nil, err
	}
	svc.invalidate(ctx)
	return g, nil
}

// Delete keeps historical orders intact: they carry the zone name snapshot.
func (svc *GovernorateService) Delete(ctx context.Context, id string) error {
	if err := svc.Repo.DeleteGovernorate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errGovernorateNotFound
		}
		return err
	}
	svc.invalidate(ctx)
	return nil
}

func (svc *GovernorateService) invalidate(ctx context.Context) {
	if err := svc.Cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).With("svc", "governorate").Warn("governorate_cache_invalidate_failed", "error", err)
	}
}
