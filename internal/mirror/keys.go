package mirror

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OrderKeyPrefix   = "order:"
	CounterKeyPrefix = "product_sold:"

	fieldID         = "id"
	fieldUserID     = "user_id"
	fieldTotal      = "total_amount"
	fieldItemsCount = "items_count"
)

func OrderKey(orderID uint) string {
	return OrderKeyPrefix + strconv.FormatUint(uint64(orderID), 10)
}

func CounterKey(productID uint) string {
	return CounterKeyPrefix + strconv.FormatUint(uint64(productID), 10)
}

func itemProductField(i int) string { return fmt.Sprintf("item_%d_product_id", i) }
func itemQuantityField(i int) string { return fmt.Sprintf("item_%d_quantity", i) }

// counterProductID extracts the product id from a product_sold:<id> key.
func counterProductID(key string) (uint, bool) {
	raw, ok := strings.CutPrefix(key, CounterKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// soldUnits is the counter delta of one line: the quantity truncated
// toward zero.
func soldUnits(quantity float64) int64 {
	return int64(quantity)
}
