package calendar

// Weekdays lists the accepted day names, Sunday first.
var Weekdays = []string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado",
}

// WeekdayIndex returns the position of day in Weekdays, or len(Weekdays)
// for unknown names so they sort last.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return len(Weekdays)
}

func IsWeekday(day string) bool {
	return WeekdayIndex(day) < len(Weekdays)
}
