package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TaxType says whether a product's selling price already contains tax.
type TaxType int

const (
	TaxTypeExclusive TaxType = 0
	TaxTypeInclusive TaxType = 1
)

func (t TaxType) String() string {
	if t == TaxTypeInclusive {
		return "Inclusive"
	}
	return "Exclusive"
}

// ParseTaxType accepts "inclusive", "exclusive", "1", "0" in any case. Empty means exclusive.
func ParseTaxType(s string) (TaxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "exclusive", "excl":
		return TaxTypeExclusive, nil
	case "1", "inclusive", "incl":
		return TaxTypeInclusive, nil
	}
	return TaxTypeExclusive, fmt.Errorf("unknown tax type %q", s)
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		str = fmt.Sprint(i)
	}
	v, err := ParseTaxType(str)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TaxTypeExclusive
	case int64:
		*t = TaxType(v)
	case int32:
		*t = TaxType(v)
	default:
		return fmt.Errorf("tax type: cannot scan %T", value)
	}
	return nil
}
