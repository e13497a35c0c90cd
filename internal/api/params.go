package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"crypto_dashboard/internal/shared/timeframe"
)

const (
	DefaultMarketLimit = 200
	MaxMarketLimit     = 500
)

// ErrInvalidParam wraps every query parameter validation failure.
var ErrInvalidParam = errors.New("invalid parameter")

// SymbolsParams defines parameters for GET /v1/symbols.
type SymbolsParams struct {
	Interval string
	Q        string
}

// PredictionParams defines parameters for GET /v1/prediction.
type PredictionParams struct {
	Symbol   string
	Interval string
	Horizon  int
}

// AccuracyParams defines parameters for GET /v1/accuracy.
type AccuracyParams struct {
	Symbol   string
	Interval string
}

// ChartParams defines parameters for GET /v1/chart/:symbol.
type ChartParams struct {
	Interval string
	Mode     string
}

// MarketParams defines parameters for GET /v1/market.
type MarketParams struct {
	Interval string
	Limit    int
	Mode     string
	Q        string
}

// BindSymbolsParams binds and validates the query of GET /v1/symbols.
func BindSymbolsParams(q url.Values) (SymbolsParams, error) {
	p := SymbolsParams{Interval: string(timeframe.Default)}
	if err := optional(q, "interval", &p.Interval); err != nil {
		return p, err
	}
	if err := optional(q, "q", &p.Q); err != nil {
		return p, err
	}
	return p, validInterval(p.Interval)
}

// BindPredictionParams binds and validates the query of GET /v1/prediction.
func BindPredictionParams(q url.Values) (PredictionParams, error) {
	p := PredictionParams{Interval: string(timeframe.Default), Horizon: timeframe.DefaultHorizon}
	if err := required(q, "symbol", &p.Symbol); err != nil {
		return p, err
	}
	if err := optional(q, "interval", &p.Interval); err != nil {
		return p, err
	}
	if err := optional(q, "horizon", &p.Horizon); err != nil {
		return p, err
	}
	if p.Horizon < 1 || p.Horizon > timeframe.MaxHorizon {
		return p, fmt.Errorf("%w: horizon must be between 1 and %d", ErrInvalidParam, timeframe.MaxHorizon)
	}
	return p, validInterval(p.Interval)
}

// BindAccuracyParams binds and validates the query of GET /v1/accuracy.
func BindAccuracyParams(q url.Values) (AccuracyParams, error) {
	p := AccuracyParams{Interval: string(timeframe.Default)}
	if err := required(q, "symbol", &p.Symbol); err != nil {
		return p, err
	}
	if err := optional(q, "interval", &p.Interval); err != nil {
		return p, err
	}
	return p, validInterval(p.Interval)
}

// BindChartParams binds and validates the query of GET /v1/chart/:symbol.
func BindChartParams(q url.Values) (ChartParams, error) {
	p := ChartParams{Interval: string(timeframe.Default), Mode: "full"}
	if err := optional(q, "interval", &p.Interval); err != nil {
		return p, err
	}
	if err := optional(q, "mode", &p.Mode); err != nil {
		return p, err
	}
	if p.Mode != "full" && p.Mode != "mini" {
		return p, fmt.Errorf("%w: mode must be full or mini", ErrInvalidParam)
	}
	return p, validInterval(p.Interval)
}

// BindMarketParams binds and validates the query of GET /v1/market.
func BindMarketParams(q url.Values) (MarketParams, error) {
	p := MarketParams{Interval: string(timeframe.Default), Limit: DefaultMarketLimit, Mode: "gainers"}
	if err := optional(q, "interval", &p.Interval); err != nil {
		return p, err
	}
	if err := optional(q, "limit", &p.Limit); err != nil {
		return p, err
	}
	if err := optional(q, "mode", &p.Mode); err != nil {
		return p, err
	}
	if err := optional(q, "q", &p.Q); err != nil {
		return p, err
	}
	if p.Limit < 1 || p.Limit > MaxMarketLimit {
		return p, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParam, MaxMarketLimit)
	}
	if p.Mode != "gainers" && p.Mode != "losers" {
		return p, fmt.Errorf("%w: mode must be gainers or losers", ErrInvalidParam)
	}
	return p, validInterval(p.Interval)
}

// required binds a mandatory query parameter into dest.
func required[T any](q url.Values, name string, dest *T) error {
	if err := runtime.BindQueryParameter("form", true, true, name, q, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	if s, ok := any(*dest).(string); ok && strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: query parameter '%s' is empty", ErrInvalidParam, name)
	}
	return nil
}

// optional binds a query parameter into dest only when it is present,
// leaving the preset default otherwise.
func optional[T any](q url.Values, name string, dest *T) error {
	var v *T
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	if v != nil {
		*dest = *v
	}
	return nil
}

func validInterval(s string) error {
	if _, err := timeframe.Parse(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return nil
}
