package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TransactionStatus
		want     bool
	}{
		{TransactionPending, TransactionCompleted, true},
		{TransactionPending, TransactionCancelled, true},
		{TransactionCompleted, TransactionCancelled, true},
		{TransactionCompleted, TransactionPending, false},
		{TransactionCancelled, TransactionCompleted, false},
		{TransactionCancelled, TransactionPending, false},
		{TransactionPending, TransactionPending, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestTransaction_StockMoves(t *testing.T) {
	sale := &Transaction{Type: TransactionSale, Items: []TransactionItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 3},
	}}
	assert.Equal(t, map[string]int{"p1": -5, "p2": -1}, sale.StockMoves(false))
	assert.Equal(t, map[string]int{"p1": 5, "p2": 1}, sale.StockMoves(true))

	adj := &Transaction{Type: TransactionAdjustment, Items: []TransactionItem{{ProductID: "p1", Quantity: -4}}}
	assert.Equal(t, map[string]int{"p1": -4}, adj.StockMoves(false))

	ret := &Transaction{Type: TransactionReturn, Items: []TransactionItem{{ProductID: "p1", Quantity: 2}}}
	assert.Equal(t, map[string]int{"p1": 2}, ret.StockMoves(false))
}

func TestProductCheck_Record(t *testing.T) {
	c := &ProductCheck{ExpectedQuantity: 10, Status: CheckPending}
	c.Record(8)
	assert.Equal(t, -2, c.Discrepancy)
	assert.Equal(t, CheckDiscrepancy, c.Status)

	c.Record(10)
	assert.Equal(t, 0, c.Discrepancy)
	assert.Equal(t, CheckVerified, c.Status)
}

func TestActor_TenantIDYRoles(t *testing.T) {
	owner := Actor{ID: "o1", Role: RoleOwner}
	assert.Equal(t, "o1", owner.TenantID())

	o := "o1"
	staff := Actor{ID: "s1", Role: RoleStaff, OwnerID: &o}
	assert.Equal(t, "o1", staff.TenantID())
	assert.Equal(t, "", Actor{ID: "x", Role: RoleAdmin}.TenantID())

	assert.True(t, RoleAdmin.Outranks(RoleStaff))
	assert.False(t, RoleStaff.Outranks(RoleStaff))
	assert.False(t, Role("ROOT").Valid())
	assert.True(t, staff.IsSelf("s1"))
	assert.False(t, Actor{}.IsSelf(""))
}

func TestProduct_LowStock(t *testing.T) {
	assert.True(t, (&Product{Quantity: 3, MinStock: 3}).LowStock())
	assert.False(t, (&Product{Quantity: 4, MinStock: 3}).LowStock())
}
