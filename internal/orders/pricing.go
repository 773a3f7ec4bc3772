package orders

import "github.com/angelmondragon/supplyhub-backend/pkg/db/models"

// liveTotal sums quantity times the current offer price. Detached items are skipped.
func liveTotal(items []models.OrderItem) int64 {
	var total int64
	for _, item := range items {
		if item.ProductInfo == nil {
			continue
		}
		total += int64(item.Quantity) * item.ProductInfo.Price
	}
	return total
}

// snapshotTotal sums quantity times the price frozen at confirmation.
func snapshotTotal(items []models.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.Price
	}
	return total
}
