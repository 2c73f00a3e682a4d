package attribution

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGroupBySellerConservation(t *testing.T) {
	order := OrderSnapshot{
		ID: "ord-1",
		Items: []ItemSnapshot{
			{SellerID: "seller-a", ProductID: "p1", UnitPrice: price("50"), Quantity: 3, Status: StatusShipped},
			{SellerID: "seller-b", ProductID: "p2", UnitPrice: price("25"), Quantity: 2, Status: StatusPending},
			{SellerID: "seller-a", ProductID: "p3", UnitPrice: price("10.50"), Quantity: 1, Status: StatusDelivered},
		},
	}

	groups, diags := GroupBySeller(order, SellerMap{})
	require.Empty(t, diags)
	require.Len(t, groups, 2)

	assert.Equal(t, "seller-a", groups[0].SellerID)
	assert.Equal(t, "160.5", groups[0].GrossRevenue.String())
	assert.Equal(t, "seller-b", groups[1].SellerID)
	assert.Equal(t, "50", groups[1].GrossRevenue.String())

	// Sum of per-seller gross equals the product subtotal regardless of how
	// items were attributed.
	assert.Equal(t, "210.5", ProductSubtotal(groups).String())
}

func TestGroupBySellerModernShapeWins(t *testing.T) {
	order := OrderSnapshot{
		ID: "ord-2",
		Items: []ItemSnapshot{
			{SellerID: "seller-a", ProductID: "p1", UnitPrice: price("100"), Quantity: 1},
		},
		CartItems: []CartItemSnapshot{
			{ProductID: "p1", Price: "100", Quantity: 1},
		},
	}

	groups, _ := GroupBySeller(order, SellerMap{})
	require.Len(t, groups, 1)
	// Legacy cartItems must be ignored when both collections exist, or the
	// item would be counted twice.
	assert.Equal(t, "100", ProductSubtotal(groups).String())
}

func TestGroupBySellerResolvesLegacyOwnership(t *testing.T) {
	order := OrderSnapshot{
		ID: "ord-3",
		CartItems: []CartItemSnapshot{
			{ProductID: "p1", Price: "30", Quantity: 2, Status: StatusProcessing},
			{ProductID: "p-unknown", Price: "10", Quantity: 1, Status: StatusPending},
		},
	}

	groups, diags := GroupBySeller(order, SellerMap{"p1": "seller-a"})
	require.Empty(t, diags)
	require.Len(t, groups, 2)

	assert.Equal(t, "seller-a", groups[0].SellerID)
	assert.Equal(t, "60", groups[0].GrossRevenue.String())
	// Unknown ownership lands in the sentinel bucket, never dropped.
	assert.Equal(t, UnassignedSeller, groups[1].SellerID)
	assert.Equal(t, "10", groups[1].GrossRevenue.String())
}

func TestGroupBySellerFallsBackToResolverForBlankSellerID(t *testing.T) {
	order := OrderSnapshot{
		ID: "ord-4",
		Items: []ItemSnapshot{
			{ProductID: "p1", UnitPrice: price("15"), Quantity: 1},
		},
	}

	groups, _ := GroupBySeller(order, SellerMap{"p1": "seller-b"})
	require.Len(t, groups, 1)
	assert.Equal(t, "seller-b", groups[0].SellerID)
}

func TestGroupBySellerRejectsMalformedItems(t *testing.T) {
	order := OrderSnapshot{
		ID: "ord-5",
		CartItems: []CartItemSnapshot{
			{ProductID: "p1", Price: "abc", Quantity: 1},
			{ProductID: "p2", Price: "20", Quantity: 0},
			{ProductID: "p3", Price: "-5", Quantity: 1},
			{ProductID: "p4", Price: "20", Quantity: 2},
		},
	}

	groups, diags := GroupBySeller(order, SellerMap{"p4": "seller-a"})
	require.Len(t, diags, 3)
	assert.Equal(t, "unparseable price", diags[0].Reason)
	assert.Equal(t, "invalid quantity", diags[1].Reason)
	assert.Equal(t, "negative unit price", diags[2].Reason)

	// The healthy item still attributes; the bad ones never abort the order.
	require.Len(t, groups, 1)
	assert.Equal(t, "40", groups[0].GrossRevenue.String())
}

func TestGroupBySellerEmptyOrder(t *testing.T) {
	groups, diags := GroupBySeller(OrderSnapshot{ID: "ord-6"}, SellerMap{})
	assert.Empty(t, groups)
	assert.Empty(t, diags)
	assert.True(t, ProductSubtotal(groups).IsZero())
}
