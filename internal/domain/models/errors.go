package models

import "errors"

var (
	// ErrNoSalesData means the sales source yielded zero records at training time.
	ErrNoSalesData = errors.New("no sales data available")

	// ErrUnknownProduct means the product is absent from the trained cache
	// even after a retrain attempt.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrPricingMissing means the pricing table has no entry for a product.
	ErrPricingMissing = errors.New("pricing entry missing")

	// ErrNotTrained means no trained state exists yet.
	ErrNotTrained = errors.New("models not trained")
)
