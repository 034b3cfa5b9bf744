package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SaleStatus represents the payment state of a closed sale
type SaleStatus int

const (
	SaleStatusCompleted SaleStatus = 0
	SaleStatusPartial   SaleStatus = 1
	SaleStatusUnpaid    SaleStatus = 2
	SaleStatusCancelled SaleStatus = 3
)

var saleStatusNames = [...]string{"completed", "partial", "unpaid", "cancelled"}

func (s SaleStatus) String() string {
	if int(s) < 0 || int(s) >= len(saleStatusNames) {
		return saleStatusNames[SaleStatusCompleted]
	}
	return saleStatusNames[s]
}

// Valid reports whether s is one of the known statuses
func (s SaleStatus) Valid() bool {
	return int(s) >= 0 && int(s) < len(saleStatusNames)
}

// Counts reports whether a sale in this status contributes to revenue and commission
func (s SaleStatus) Counts() bool {
	return s != SaleStatusCancelled
}

// ParseSaleStatus converts a status name into a SaleStatus
func ParseSaleStatus(str string) (SaleStatus, error) {
	for i, name := range saleStatusNames {
		if name == str {
			return SaleStatus(i), nil
		}
	}
	return SaleStatusCompleted, fmt.Errorf("unknown sale status %q", str)
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	status, err := ParseSaleStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
