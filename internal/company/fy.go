package company

import (
	"fmt"
	"time"
)

// DeriveFinancialYear maps a books-beginning date onto the April–March
// fiscal year containing it. A date in or after April belongs to the year
// starting that April; January–March dates fall into the previous year's
// span. The label is "YYYY-YY" over the start and end years.
func DeriveFinancialYear(booksBeginning time.Time) (label string, start, end time.Time) {
	year := booksBeginning.Year()
	if booksBeginning.Month() < time.April {
		year--
	}
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	label = fmt.Sprintf("%d-%02d", year, (year+1)%100)
	return label, start, end
}
