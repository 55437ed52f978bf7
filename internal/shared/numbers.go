package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DocumentNumber produces a human-readable unique reference such as
// APP-3F2A9C41 for applications, contracts and payments.
func DocumentNumber(prefix string) string {
	id := strings.ToUpper(uuid.NewString())
	return fmt.Sprintf("%s-%s", prefix, id[:8])
}
