package usecase

import "time"

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func addDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}
