package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var pricingNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestPriceOrder_RegularMode(t *testing.T) {
	quote, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: 5},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.NoError(t, err)
	require.Equal(t, 300.0, quote.Total)
	require.Equal(t, "Regular Clothes (5 kg)", quote.Summary)
	require.Equal(t, pricingNow.AddDate(0, 0, 3), quote.DueDate)
}

func TestPriceOrder_ExpressSurchargeAppliedOnce(t *testing.T) {
	quote, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: 5},
		{Service: "Blanket", Quantity: 2},
	}, ModeExpress, DefaultCatalog(), pricingNow)
	require.NoError(t, err)
	// 5*60 + 2*120 + 100 surcharge
	require.Equal(t, 640.0, quote.Total)
	require.Equal(t, pricingNow.AddDate(0, 0, 1), quote.DueDate)
}

func TestPriceOrder_SummaryListsSelectionsInOrder(t *testing.T) {
	quote, err := PriceOrder([]Selection{
		{Service: "Beddings (Queen)", Quantity: 1},
		{Service: "Towels (Bath)", Quantity: 4},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.NoError(t, err)
	require.Equal(t, "Beddings (Queen) (1 set), Towels (Bath) (4 piece)", quote.Summary)
}

func TestPriceOrder_UnknownServiceRejected(t *testing.T) {
	_, err := PriceOrder([]Selection{
		{Service: "Dry Cleaning", Quantity: 1},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.ErrorIs(t, err, ErrUnknownService)
}

func TestPriceOrder_NonPositiveQuantityDropped(t *testing.T) {
	quote, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: 0},
		{Service: "Blanket", Quantity: 1},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)
	require.Equal(t, "Blanket", quote.Items[0].Service)
}

func TestPriceOrder_QuantityAboveLimitRejected(t *testing.T) {
	_, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: MaxQuantity + 1},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPriceOrder_NonFiniteQuantityRejected(t *testing.T) {
	for _, qty := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := PriceOrder([]Selection{
			{Service: "Regular Clothes", Quantity: qty},
		}, ModeRegular, DefaultCatalog(), pricingNow)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestPriceOrder_AllSelectionsDroppedIsEmptyOrder(t *testing.T) {
	_, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: 0},
		{Service: "Blanket", Quantity: -2},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPriceOrder_NoSelectionsIsEmptyOrder(t *testing.T) {
	_, err := PriceOrder(nil, ModeRegular, DefaultCatalog(), pricingNow)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPriceOrder_TotalAboveLimitRejected(t *testing.T) {
	// 1000 kg delicate at 80/kg lands well above the cap.
	_, err := PriceOrder([]Selection{
		{Service: "Delicate Fabrics", Quantity: 1000},
		{Service: "Beddings (King)", Quantity: 1000},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.ErrorIs(t, err, ErrTotalOutOfRange)
}

func TestPriceOrder_TotalAtLimitAccepted(t *testing.T) {
	catalog := NewCatalog([]CatalogEntry{
		{Name: "Bulk Contract", UnitPrice: MaxOrderTotal, Unit: "lot"},
	})
	quote, err := PriceOrder([]Selection{
		{Service: "Bulk Contract", Quantity: 1},
	}, ModeRegular, catalog, pricingNow)
	require.NoError(t, err)
	require.Equal(t, float64(MaxOrderTotal), quote.Total)
}

func TestPriceOrder_FractionalQuantityRoundsToCents(t *testing.T) {
	quote, err := PriceOrder([]Selection{
		{Service: "Regular Clothes", Quantity: 2.345},
	}, ModeRegular, DefaultCatalog(), pricingNow)
	require.NoError(t, err)
	require.Equal(t, 140.7, quote.Total)
}

func TestCatalog_LookupAndOrder(t *testing.T) {
	catalog := DefaultCatalog()
	entry, ok := catalog.Lookup("Regular Clothes")
	require.True(t, ok)
	require.Equal(t, 60.0, entry.UnitPrice)

	_, ok = catalog.Lookup("regular clothes")
	require.False(t, ok, "lookup is by exact name")

	entries := catalog.Entries()
	require.Len(t, entries, 10)
	require.Equal(t, "Regular Clothes", entries[0].Name)
	require.Equal(t, "Towels (Bath)", entries[9].Name)
}
