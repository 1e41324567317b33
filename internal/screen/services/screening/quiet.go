package screening

import (
	"time"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// IsQuietNow reports whether now falls inside the enabled quiet window.
func IsQuietNow(q domain.QuietHours, now time.Time) bool {
	return q.IsQuietAt(now)
}
