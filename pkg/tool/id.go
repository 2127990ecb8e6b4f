package tool

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateOrderNumber builds a human-readable order number for the given day,
// e.g. FM-20250301-9F3A2C1B. Uniqueness comes from the random suffix; the
// database enforces it.
func GenerateOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("FM-%s-%s", t.UTC().Format("20060102"), suffix)
}
