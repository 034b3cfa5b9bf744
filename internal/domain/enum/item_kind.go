package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ItemKind distinguishes services from retail products on a sale line
type ItemKind int

const (
	ItemKindService ItemKind = 0
	ItemKindProduct ItemKind = 1
)

func (k ItemKind) String() string {
	names := [...]string{"service", "product"}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Valid reports whether k is a known kind
func (k ItemKind) Valid() bool {
	return k == ItemKindService || k == ItemKindProduct
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = ItemKind(i)
		return nil
	}
	switch str {
	case "service":
		*k = ItemKindService
	case "product":
		*k = ItemKindProduct
	default:
		return fmt.Errorf("unknown item kind %q", str)
	}
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ItemKindService
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = ItemKind(v)
	case int:
		*k = ItemKind(v)
	}
	return nil
}
