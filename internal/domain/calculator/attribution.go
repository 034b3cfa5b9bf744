package calculator

import (
	"strings"

	"github.com/sangkips/salon-api/internal/domain/entity"
)

// CreditedTo reports whether a sale line is credited to the staff member.
//
// Precedence: line StaffID, line StaffName, sale StaffID, sale StaffName. The
// first one present decides; later ones are not consulted. Names compare
// case-insensitively after trimming.
func CreditedTo(sale *entity.Sale, item *entity.SaleItem, staff *entity.Staff) bool {
	switch {
	case item.StaffID != nil:
		return *item.StaffID == staff.ID
	case strings.TrimSpace(item.StaffName) != "":
		return sameName(item.StaffName, staff.Name)
	case sale.StaffID != nil:
		return *sale.StaffID == staff.ID
	case strings.TrimSpace(sale.StaffName) != "":
		return sameName(sale.StaffName, staff.Name)
	}
	return false
}

func sameName(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
