package timefmt

import (
	"fmt"
	"time"
)

// Duration renders a duration the way the bot talks about time:
// "2 дн. 3 ч.", "3 ч. 15 мин." or "4 мин. 30 сек." depending on magnitude.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	days := total / (24 * 60 * 60)
	hours := (total % (24 * 60 * 60)) / (60 * 60)
	minutes := (total % (60 * 60)) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d дн. %d ч.", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d ч. %d мин.", hours, minutes)
	default:
		return fmt.Sprintf("%d мин. %d сек.", minutes, seconds)
	}
}

// Age renders elapsed time since t, dropping the seconds for ages over a minute.
func Age(from, now time.Time) string {
	d := now.Sub(from)
	if d < 0 {
		d = 0
	}
	minutes := int64(d.Minutes())
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%d дн. %d ч.", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%d ч. %d мин.", hours, minutes%60)
	default:
		return fmt.Sprintf("%d мин.", minutes)
	}
}
