// internal/submission/leadid.go
package submission

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const leadIDSuffixLen = 9

// NewLeadID returns LEAD-<unix-ms>-<9 upper-case base36 characters>.
func NewLeadID(now time.Time) string {
	return fmt.Sprintf("LEAD-%d-%s", now.UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	u := uuid.New()
	s := strings.ToUpper(new(big.Int).SetBytes(u[:]).Text(36))
	if len(s) < leadIDSuffixLen {
		s = strings.Repeat("0", leadIDSuffixLen-len(s)) + s
	}
	return s[len(s)-leadIDSuffixLen:]
}
