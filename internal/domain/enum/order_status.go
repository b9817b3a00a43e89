package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	OrderStatusPending  OrderStatus = 0
	OrderStatusComplete OrderStatus = 1
	OrderStatusCancel   OrderStatus = 2
)

var orderStatusNames = [...]string{"Pending", "Complete", "Cancel"}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return "Pending"
	}
	return orderStatusNames[s]
}

// ParseOrderStatus matches a status name case-insensitively.
func ParseOrderStatus(str string) (OrderStatus, error) {
	for i, n := range orderStatusNames {
		if strings.EqualFold(n, strings.TrimSpace(str)) {
			return OrderStatus(i), nil
		}
	}
	return OrderStatusPending, fmt.Errorf("unknown order status %q", str)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	v, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = OrderStatusPending
	case int64:
		*s = OrderStatus(v)
	case int32:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("order status: cannot scan %T", value)
	}
	return nil
}
