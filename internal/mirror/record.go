package mirror

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store_manager/internal/models"
)

// fieldValues flattens an order into HSET arguments in a stable order.
func fieldValues(o models.CachedOrder) []any {
	values := make([]any, 0, 8+4*len(o.Items))
	values = append(values,
		fieldID, strconv.FormatUint(uint64(o.ID), 10),
		fieldUserID, strconv.FormatUint(uint64(o.UserID), 10),
		fieldTotal, o.TotalAmount.StringFixed(2),
		fieldItemsCount, strconv.Itoa(len(o.Items)),
	)
	for i, it := range o.Items {
		values = append(values,
			itemProductField(i), strconv.FormatUint(uint64(it.ProductID), 10),
			itemQuantityField(i), strconv.FormatFloat(it.Quantity, 'f', -1, 64),
		)
	}
	return values
}

// parseRecord reads a cached hash back. Missing scalar fields default to
// zero; item slots missing either field are skipped.
func parseRecord(fields map[string]string) (models.CachedOrder, error) {
	var o models.CachedOrder

	id, err := parseUint(fields, fieldID)
	if err != nil {
		return o, err
	}
	userID, err := parseUint(fields, fieldUserID)
	if err != nil {
		return o, err
	}
	o.ID, o.UserID = id, userID

	o.TotalAmount = decimal.Zero
	if raw, ok := fields[fieldTotal]; ok && raw != "" {
		total, err := decimal.NewFromString(raw)
		if err != nil {
			return o, fmt.Errorf("field %s: %w", fieldTotal, err)
		}
		o.TotalAmount = total
	}

	count := 0
	if raw, ok := fields[fieldItemsCount]; ok && raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			return o, fmt.Errorf("field %s: %w", fieldItemsCount, err)
		}
	}

	for i := 0; i < count; i++ {
		rawPID, okP := fields[itemProductField(i)]
		rawQty, okQ := fields[itemQuantityField(i)]
		if !okP || !okQ {
			continue
		}
		pid, err := strconv.ParseUint(rawPID, 10, 64)
		if err != nil {
			return o, fmt.Errorf("field %s: %w", itemProductField(i), err)
		}
		qty, err := strconv.ParseFloat(rawQty, 64)
		if err != nil {
			return o, fmt.Errorf("field %s: %w", itemQuantityField(i), err)
		}
		o.Items = append(o.Items, models.CachedItem{ProductID: uint(pid), Quantity: qty})
	}
	return o, nil
}

func parseUint(fields map[string]string, name string) (uint, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return uint(v), nil
}
