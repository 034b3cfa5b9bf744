package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ProfileType selects how a commission profile derives its rate
type ProfileType int

const (
	// ProfileTypeItemBased applies fixed service and product rates to attributed revenue
	ProfileTypeItemBased ProfileType = 0
	// ProfileTypeTargetBased picks a rate from revenue tiers
	ProfileTypeTargetBased ProfileType = 1
)

func (t ProfileType) String() string {
	names := [...]string{"item_based", "target_based"}
	if int(t) < 0 || int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

func (t ProfileType) Valid() bool {
	return t == ProfileTypeItemBased || t == ProfileTypeTargetBased
}

func (t ProfileType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ProfileType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ProfileType(i)
		return nil
	}
	switch str {
	case "item_based":
		*t = ProfileTypeItemBased
	case "target_based":
		*t = ProfileTypeTargetBased
	default:
		return fmt.Errorf("unknown commission profile type %q", str)
	}
	return nil
}

func (t ProfileType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ProfileType) Scan(value interface{}) error {
	if value == nil {
		*t = ProfileTypeItemBased
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ProfileType(v)
	case int:
		*t = ProfileType(v)
	}
	return nil
}
