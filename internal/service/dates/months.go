package dates

import (
	"strings"
	"time"
)

// monthsGen are Russian month names in genitive case, the form dates are
// written in chat ("11 марта") and the form relative dates normalize to.
var monthsGen = []string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// monthsNom are nominative forms ("в марте цены другие" is asked as "март").
var monthsNom = []string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// monthsPrep are prepositional forms ("в марте").
var monthsPrep = []string{
	"январе", "феврале", "марте", "апреле", "мае", "июне",
	"июле", "августе", "сентябре", "октябре", "ноябре", "декабре",
}

var monthByForm = func() map[string]time.Month {
	m := make(map[string]time.Month, 36)
	for i := 0; i < 12; i++ {
		month := time.Month(i + 1)
		m[monthsGen[i]] = month
		m[monthsNom[i]] = month
		m[monthsPrep[i]] = month
	}
	return m
}()

// monthAlternation is the regex alternation of every recognized month form.
var monthAlternation = strings.Join(append(append(append([]string{}, monthsGen...), monthsNom...), monthsPrep...), "|")

func monthFromForm(word string) (time.Month, bool) {
	m, ok := monthByForm[strings.ToLower(word)]
	return m, ok
}

func genitiveMonth(m time.Month) string {
	return monthsGen[int(m)-1]
}

func daysInMonth(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
