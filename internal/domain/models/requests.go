package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Product string `query:"product" json:"product" validate:"required"`
	Days    int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}

type ForecastAllRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}

type ProfitRequest struct {
	Product string `query:"product" json:"product" validate:"required"`
	Days    int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}

type ProfitAllRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}
