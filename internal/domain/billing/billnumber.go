package billing

import (
	"fmt"
	"math/rand"
	"time"
)

// BillNumberPrefix prefixes every caterer bill number
const BillNumberPrefix = "CB"

// GenerateBillNumber produces a bill number in the form CB-YYYYMMDD-NNN with
// a random zero-padded 3-digit suffix. Collisions are possible; duplicate
// submissions are caught by the idempotent create path, not here.
func GenerateBillNumber(at time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", BillNumberPrefix, at.Format("20060102"), rand.Intn(1000))
}
