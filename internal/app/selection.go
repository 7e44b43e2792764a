package app

import (
	"strconv"
	"strings"
)

// ParseSelection turns user input such as "1 3" or "all" into 1-based shoot
// indices. Tokens may be separated by spaces or commas; non-numeric tokens
// are ignored and repeats are dropped. Out-of-range numbers are kept so the
// executor can report them.
func ParseSelection(input string, shootCount int) []int {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := map[int]bool{}
	var selected []int
	add := func(idx int) {
		if seen[idx] {
			return
		}
		seen[idx] = true
		selected = append(selected, idx)
	}

	for _, field := range fields {
		if strings.EqualFold(field, "all") {
			for i := 1; i <= shootCount; i++ {
				add(i)
			}
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		add(idx)
	}
	return selected
}
