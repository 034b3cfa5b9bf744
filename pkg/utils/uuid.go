package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// GenerateInvoiceNo generates a unique invoice number such as INV-20240115-1A2B3C4D
func GenerateInvoiceNo(prefix string, date time.Time) string {
	if prefix == "" {
		prefix = "INV"
	}
	return prefix + "-" + date.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
