package table

import (
	"strconv"
	"strings"
)

// MaxDeckSize caps the number of cards a single deck list may expand to.
const MaxDeckSize = 1000

// ParseDeckList expands a newline-delimited "quantity name" list into a flat
// sequence of card names. Each line "N CardName" contributes N copies of
// CardName. Lines without a leading integer, with a non-positive count, with
// no name, or whose count would take the deck past MaxDeckSize are skipped.
func ParseDeckList(raw string) []string {
	var names []string

	for _, line := range strings.Split(raw, "\n") {
		quantity, name, ok := parseLine(line)
		if !ok || quantity > MaxDeckSize-len(names) {
			continue
		}
		for i := 0; i < quantity; i++ {
			names = append(names, name)
		}
	}

	return names
}

func parseLine(line string) (int, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, "", false
	}

	quantity, err := strconv.Atoi(fields[0])
	if err != nil || quantity <= 0 || quantity > MaxDeckSize {
		return 0, "", false
	}

	return quantity, strings.Join(fields[1:], " "), true
}
