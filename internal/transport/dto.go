package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Scalar holds a JSON number or string as its raw text. Parsing is left to
// the order service so malformed values get its validation messages.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected number or string, got %s", b)
	}
	*s = Scalar(n.String())
	return nil
}

type OrderLine struct {
	ProductID Scalar `json:"product_id"`
	Quantity  Scalar `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID uint        `json:"user_id"`
	Items  []OrderLine `json:"items"`
}

type CreateOrderResponse struct {
	OrderID uint `json:"order_id"`
}
