package domain

import "fmt"

// Kop is a monetary amount in minor currency units. Amounts stay integral at
// every boundary; conversion to major units happens only at render time.
type Kop int64

// Rub formats the amount in major units with exactly two decimal places.
func (k Kop) Rub() string {
	v := int64(k)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
