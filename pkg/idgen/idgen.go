package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixSession     = "SES"
	PrefixTransaction = "TXN"
	PrefixReceipt     = "RCP"
)

// Reference builds a human-readable identifier of the form
// <PREFIX>-<unix millis>-<9 random uppercase hex chars>.
func Reference(prefix string, now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), random)
}
