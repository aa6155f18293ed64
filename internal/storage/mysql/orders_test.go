package mysql

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type TestOrderFixture struct {
	OrderNum string
	Customer string
	Year     int
	Month    int
	Items    []storage.OrderItem
}

func createTestOrder(t *testing.T, s *Storage, fixture TestOrderFixture) int64 {
	t.Helper()

	clientID, err := s.SaveClient(context.Background(), storage.SaveClient{
		Name:   fixture.Customer,
		Active: true,
	})
	require.NoError(t, err)

	orderDate := fmt.Sprintf("%04d-%02d-15", fixture.Year, fixture.Month)
	dueDate := fmt.Sprintf("%04d-%02d-28", fixture.Year, fixture.Month)

	orderID, err := s.SaveOrder(context.Background(), storage.SaveOrder{
		OrderNum:  fixture.OrderNum,
		ClientID:  clientID,
		OrderDate: orderDate,
		DueDate:   dueDate,
		Items:     fixture.Items,
	})
	require.NoError(t, err)

	return orderID
}

func TestStorage_SaveOrderRoundTrip(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	items := []storage.OrderItem{
		{Position: 1, ProductCode: "CT-76", ProductName: "Core tube 76mm", Quantity: 1000, UnitPrice: 0.55},
		{Position: 2, ProductCode: "CT-100", ProductName: "Core tube 100mm", Quantity: 250, UnitPrice: 0.80},
	}
	createTestOrder(t, s, TestOrderFixture{
		OrderNum: "TW-1001",
		Customer: "Brightside Films",
		Year:     2026, Month: 1,
		Items: items,
	})

	order, err := s.GetOrder(context.Background(), "TW-1001")
	require.NoError(t, err)

	assert.Equal(t, "TW-1001", order.OrderNum)
	assert.Equal(t, "Brightside Films", order.Customer)
	assert.Nil(t, order.Notes)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "CT-76", order.Items[0].ProductCode)
	assert.Equal(t, 1000, order.Items[0].Quantity)
	assert.Equal(t, 0.55, order.Items[0].UnitPrice)

	// SaveOrder also has to open the board job at the first stage.
	job, err := s.GetJob(context.Background(), "TW-1001")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageOrderEntered, job.Stage)
	assert.False(t, job.MaterialsReady)
}

func TestStorage_GetOrderNotFound(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	_, err := s.GetOrder(context.Background(), "TW-MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_GetOrdersMonth(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	expectedOrderNums := []string{"TW-0", "TW-1", "TW-2"}

	for i := 0; i < 3; i++ {
		createTestOrder(t, s, TestOrderFixture{
			OrderNum: "TW-" + strconv.Itoa(i),
			Customer: "testCust" + strconv.Itoa(i),
			Year:     2026, Month: 1,
		})
	}

	orders, err := s.GetOrdersMonth(context.Background(), 2026, 1, "")
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	actualOrderNums := make([]string, len(orders))
	for i, order := range orders {
		actualOrderNums[i] = order.OrderNum
	}
	assert.ElementsMatch(t, expectedOrderNums, actualOrderNums)
}

func TestStorage_GetOrdersMonthWithSearch(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	for i := 0; i < 3; i++ {
		createTestOrder(t, s, TestOrderFixture{
			OrderNum: "TW-" + strconv.Itoa(i),
			Customer: "testCust" + strconv.Itoa(i),
			Year:     2026, Month: 1,
		})
	}

	orders, err := s.GetOrdersMonth(context.Background(), 2026, 1, "TW-0")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "TW-0", orders[0].OrderNum)

	// Search also matches the client name, and ignores the month filter.
	orders, err = s.GetOrdersMonth(context.Background(), 2030, 6, "testCust2")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "TW-2", orders[0].OrderNum)
}

func TestStorage_GetOrdersMonth_NoOrdersInMonth(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	for i := 0; i < 3; i++ {
		createTestOrder(t, s, TestOrderFixture{
			OrderNum: "TW-" + strconv.Itoa(i),
			Customer: "testCust" + strconv.Itoa(i),
			Year:     2026, Month: 2,
		})
	}

	orders, err := s.GetOrdersMonth(context.Background(), 2026, 1, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStorage_GetOrderItem(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	createTestOrder(t, s, TestOrderFixture{
		OrderNum: "TW-2001",
		Customer: "Harbour Packaging",
		Year:     2026, Month: 3,
		Items: []storage.OrderItem{
			{Position: 1, ProductCode: "CT-76", ProductName: "Core tube 76mm", Quantity: 400, UnitPrice: 0.62},
		},
	})

	item, err := s.GetOrderItem(context.Background(), "TW-2001", 1)
	require.NoError(t, err)
	assert.Equal(t, "CT-76", item.ProductCode)
	assert.Equal(t, 400, item.Quantity)

	_, err = s.GetOrderItem(context.Background(), "TW-2001", 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_UpdateOrderReplacesItems(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	createTestOrder(t, s, TestOrderFixture{
		OrderNum: "TW-3001",
		Customer: "Southern Labels",
		Year:     2026, Month: 4,
		Items: []storage.OrderItem{
			{Position: 1, ProductCode: "CT-76", ProductName: "Core tube 76mm", Quantity: 100, UnitPrice: 0.55},
			{Position: 2, ProductCode: "CT-100", ProductName: "Core tube 100mm", Quantity: 50, UnitPrice: 0.80},
		},
	})

	before, err := s.GetOrder(context.Background(), "TW-3001")
	require.NoError(t, err)

	err = s.UpdateOrder(context.Background(), "TW-3001", storage.SaveOrder{
		ClientID:  before.ClientID,
		OrderDate: "2026-04-15",
		DueDate:   "2026-05-10",
		Notes:     "rush job",
		Items: []storage.OrderItem{
			{Position: 1, ProductCode: "CT-76", ProductName: "Core tube 76mm", Quantity: 150, UnitPrice: 0.55, Done: true},
		},
	})
	require.NoError(t, err)

	after, err := s.GetOrder(context.Background(), "TW-3001")
	require.NoError(t, err)
	require.NotNil(t, after.Notes)
	assert.Equal(t, "rush job", *after.Notes)
	require.Len(t, after.Items, 1)
	assert.Equal(t, 150, after.Items[0].Quantity)
	assert.True(t, after.Items[0].Done)

	err = s.UpdateOrder(context.Background(), "TW-MISSING", storage.SaveOrder{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
