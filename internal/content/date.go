package content

import (
	"fmt"
	"time"
)

// FormatDate renders a time the way the mobile app displays herb-library
// dates: "10 Tháng 6, 2021".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d Tháng %d, %d", t.Day(), int(t.Month()), t.Year())
}
