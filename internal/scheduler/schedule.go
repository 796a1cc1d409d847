package scheduler

import "time"

// Schedule yields the next run time strictly after a given instant
type Schedule interface {
	Next(after time.Time) time.Time
}

type every struct {
	interval time.Duration
}

// Every runs on wall-clock multiples of interval, like a "*/5 * * * *" cron
// line for five minutes
func Every(interval time.Duration) Schedule {
	return every{interval: interval}
}

func (e every) Next(after time.Time) time.Time {
	return after.Truncate(e.interval).Add(e.interval)
}

type weekly struct {
	weekday time.Weekday
	hour    int
	minute  int
	loc     *time.Location
}

// Weekly runs once a week on weekday at hour:minute in loc
func Weekly(weekday time.Weekday, hour, minute int, loc *time.Location) Schedule {
	return weekly{weekday: weekday, hour: hour, minute: minute, loc: loc}
}

func (w weekly) Next(after time.Time) time.Time {
	t := after.In(w.loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), w.hour, w.minute, 0, 0, w.loc)

	days := (int(w.weekday) - int(next.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(after) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
