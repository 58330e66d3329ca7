package postgres

import (
	"time"

	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// dateParam sends a calendar day as text so DATE columns compare without
// any time zone conversion.
func dateParam(t time.Time) string {
	return domain.TruncateDay(t).Format(domain.DateLayout)
}
