package transactions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/traders/internal/domain/models"
	"github.com/mamadbah2/traders/internal/service/transactions"
)

func TestModelIndexDeduplicates(t *testing.T) {
	idx := transactions.NewModelIndex([]models.ModelHistoryEntry{
		{Item: "Laptop", Company: "Hp", Model: "840 G9"},
		{Item: "laptop", Company: "Dell", Model: "840 g9"},
		{Item: "Laptop ", Company: "Dell", Model: "Latitude"},
		{Item: "Iron", Company: "Philips", Model: "GC160"},
	})

	assert.Equal(t, []string{"840 G9", "Latitude"}, idx.Models("LAPTOP"))
	assert.Equal(t, []string{"GC160"}, idx.Models("iron"))
	assert.Empty(t, idx.Models("Juicer"))
}

func TestModelIndexAdd(t *testing.T) {
	idx := transactions.NewModelIndex(nil)
	assert.True(t, idx.Add("Cooler", "Room 40"))
	assert.False(t, idx.Add("cooler", "ROOM 40"))
	assert.False(t, idx.Add("Cooler", "  "))
	assert.True(t, idx.Add("Cooler", "Desert 80"))
	assert.Equal(t, []string{"Room 40", "Desert 80"}, idx.Models("Cooler"))
}

func TestModelIndexItems(t *testing.T) {
	idx := transactions.NewModelIndex([]models.ModelHistoryEntry{
		{Item: "Toaster", Model: "T1"},
		{Item: "laptop", Model: "X"},
		{Item: "Microwave", Model: "M"},
	})

	items := idx.Items()
	assert.Equal(t, transactions.DefaultItems, items[:len(transactions.DefaultItems)])
	assert.Equal(t, []string{"Microwave", "Toaster"}, items[len(transactions.DefaultItems):])
}
