// Package calendar implements the simulated game calendar.
// This package is PURE and must NOT import any infrastructure packages.
//
// A Date is a simulated day, not a wall-clock timestamp. All arithmetic uses a
// days-in-month table with the Gregorian leap-year rule.
package calendar

import "fmt"

// Date is a simulated calendar date. Month is 1-12, Day is 1-31.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// New builds a Date without validation.
func New(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the length of the given month.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month-1]
}

// AddDays moves d forward (or backward for negative n) by n days.
func AddDays(d Date, n int) Date {
	year, month, day := d.Year, d.Month, d.Day+n

	for day > DaysInMonth(year, month) {
		day -= DaysInMonth(year, month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	for day < 1 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		day += DaysInMonth(year, month)
	}

	return Date{Year: year, Month: month, Day: day}
}

// AddMonths moves d by n months, clamping the day to the target month's length.
// Clamping is lossy: AddMonths(AddMonths(d, m), -m) need not equal d.
func AddMonths(d Date, n int) Date {
	year, month := d.Year, d.Month+n

	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	day := d.Day
	if maxDay := DaysInMonth(year, month); day > maxDay {
		day = maxDay
	}

	return Date{Year: year, Month: month, Day: day}
}

// IsSameDate reports whether a and b are the same day.
func IsSameDate(a, b Date) bool {
	return a == b
}

// IsAfterOrEqual compares (year, month, day) lexicographically.
func IsAfterOrEqual(a, b Date) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	if a.Month != b.Month {
		return a.Month > b.Month
	}
	return a.Day >= b.Day
}

// Quarter returns 0-3 for the quarter containing d.
func Quarter(d Date) int {
	return (d.Month - 1) / 3
}

// IsNewQuarter reports whether current falls in a different quarter than previous.
func IsNewQuarter(previous, current Date) bool {
	return Quarter(previous) != Quarter(current) || previous.Year != current.Year
}

// DaysBetween counts whole days from a to b (negative if b precedes a).
func DaysBetween(a, b Date) int {
	return ordinal(b) - ordinal(a)
}

// ordinal is the number of days since 1 Jan of year 1.
func ordinal(d Date) int {
	y := d.Year - 1
	days := y*365 + y/4 - y/100 + y/400
	for m := 1; m < d.Month; m++ {
		days += DaysInMonth(d.Year, m)
	}
	return days + d.Day
}

// Format renders "6 Apr 2024".
func Format(d Date) string {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
	}
	return fmt.Sprintf("%d %s %d", d.Day, monthNames[d.Month-1], d.Year)
}

func (d Date) String() string {
	return Format(d)
}
