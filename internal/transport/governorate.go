package transport

import (
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

type GovernorateResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"displayName"`
	DeliveryFee money.Mils `json:"deliveryFee"`
	Active      bool       `json:"active"`
}

type CreateGovernorateRequest struct {
	Name        string     `json:"displayName"`
	DeliveryFee money.Mils `json:"deliveryFee"`
	Active      *bool      `json:"active"`
}

type PatchGovernorateRequest struct {
	Name        *string     `json:"displayName"`
	DeliveryFee *money.Mils `json:"deliveryFee"`
	Active      *bool       `json:"active"`
}

func GovernorateOf(g *models.Governorate) GovernorateResponse {
	return GovernorateResponse{
		ID:          g.ID,
		Name:        g.Name,
		DeliveryFee: money.FromDecimal(g.DeliveryFee),
		Active:      g.Active,
	}
}

func Governorates(gs []models.Governorate) []GovernorateResponse {
	out := make([]GovernorateResponse, 0, len(gs))
	for i := range gs {
		out = append(out, GovernorateOf(&gs[i]))
	}
	return out
}
