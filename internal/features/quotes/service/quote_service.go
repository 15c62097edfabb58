package service

import (
	"context"
	"errors"
	"fmt"

	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/quotes/domain"
	"parcel-portal/internal/features/quotes/ports"

	"go.uber.org/zap"
)

// QuoteServiceImpl implements ports.QuoteService.
type QuoteServiceImpl struct {
	provider ports.EstimateProvider
	// fallback substitutes the demo offers when the API gives nothing usable.
	fallback bool
}

// NewQuoteService creates a new QuoteServiceImpl.
func NewQuoteService(provider ports.EstimateProvider, fallback bool) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		provider: provider,
		fallback: fallback,
	}
}

// Estimate validates the package forms and returns priced offers.
// Invalid input never reaches the network. Results are not cached.
// An expired upstream session is never masked by the fallback.
func (s *QuoteServiceImpl) Estimate(ctx context.Context, forms []domain.PackageForm, addOns domain.AddOns) (*domain.QuoteResult, error) {
	packages, err := domain.ParsePackages(forms)
	if err != nil {
		return nil, err
	}

	offers, err := s.provider.Estimate(ctx, packages, addOns)
	if err == nil {
		if priced := domain.FilterPriced(offers); len(priced) > 0 {
			return &domain.QuoteResult{Source: domain.SourceAPI, Offers: priced}, nil
		}
	}

	if errors.Is(err, logistics.ErrUnauthorized) {
		return nil, err
	}

	if !s.fallback {
		if err != nil {
			return nil, fmt.Errorf("service: failed to estimate: %w", err)
		}
		return nil, domain.ErrNoOffers
	}

	fields := []zap.Field{zap.Int("packages", len(packages)), zap.Int("offers_received", len(offers))}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Get().Warn("Estimate unavailable, serving fallback offers", fields...)

	return &domain.QuoteResult{Source: domain.SourceFallback, Offers: domain.FallbackOffers()}, nil
}
