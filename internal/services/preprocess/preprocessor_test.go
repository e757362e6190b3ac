package preprocess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
	"DineCast/internal/services/calendar"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(t time.Time, product string, qty int, price float64) *models.SaleRecord {
	return &models.SaleRecord{Date: t, Product: product, Quantity: qty, UnitPrice: price}
}

func TestRunEmptyInput(t *testing.T) {
	p := New(calendar.NewComposite())
	_, err := p.Run(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoSalesData)
}

func TestRunAggregatesSameDay(t *testing.T) {
	p := New(calendar.NewComposite())

	series, err := p.Run([]*models.SaleRecord{
		sale(day(2024, 3, 4), "Burgers", 50, 12.99),
		sale(day(2024, 3, 4), "Burgers", 30, 12.99),
	})
	require.NoError(t, err)

	rows := series["Burgers"]
	require.Len(t, rows, 1)
	assert.Equal(t, 80.0, rows[0].Quantity)
	assert.InDelta(t, 80*12.99, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 12.99, rows[0].AvgPrice, 1e-9)
	assert.Equal(t, 2, rows[0].OrderCount)
}

func TestRunGapFillingCompleteness(t *testing.T) {
	p := New(calendar.NewComposite())

	// Two products, sparse days; range spans 2024-03-01 .. 2024-03-10.
	series, err := p.Run([]*models.SaleRecord{
		sale(day(2024, 3, 1), "Burgers", 10, 12.99),
		sale(day(2024, 3, 10), "Burgers", 20, 12.99),
		sale(day(2024, 3, 5), "Fries", 40, 3.49),
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	for product, rows := range series {
		require.Len(t, rows, 10, product)
		seen := make(map[string]bool)
		for i, row := range rows {
			key := row.Date.Format("2006-01-02")
			assert.False(t, seen[key], "duplicate day %s for %s", key, product)
			seen[key] = true
			if i > 0 {
				assert.Equal(t, 24*time.Hour, row.Date.Sub(rows[i-1].Date))
			}
		}
	}

	// Fries has a synthesized zero row on a day only Burgers sold.
	fries := series["Fries"]
	assert.Equal(t, 0.0, fries[0].Quantity)
	assert.Equal(t, 0.0, fries[0].Revenue)
	assert.Equal(t, 0, fries[0].OrderCount)
}

func TestRunFeatureAttachment(t *testing.T) {
	p := New(calendar.NewComposite())

	// 2024-11-28 is Thanksgiving, a Thursday; 2024-11-30 is a Saturday.
	series, err := p.Run([]*models.SaleRecord{
		sale(day(2024, 11, 28), "Burgers", 100, 12.99),
		sale(day(2024, 11, 30), "Burgers", 60, 12.99),
	})
	require.NoError(t, err)

	rows := series["Burgers"]
	require.Len(t, rows, 3)

	thu := rows[0]
	assert.Equal(t, 3, thu.DayOfWeek)
	assert.Equal(t, "Thursday", thu.DayName)
	assert.True(t, thu.IsFestival)
	assert.Equal(t, "Thanksgiving 2024", thu.FestivalName)
	assert.False(t, thu.IsWeekend)
	assert.Equal(t, 11, thu.Month)
	assert.Equal(t, 28, thu.DayOfMonth)
	assert.Equal(t, 48, thu.WeekOfYear)

	sat := rows[2]
	assert.True(t, sat.IsWeekend)
	assert.Equal(t, 5, sat.DayOfWeek)
	// Black Friday was the 29th, not the 30th.
	assert.False(t, sat.IsFestival)
}
