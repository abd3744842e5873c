package segment

import (
	"regexp"
	"strconv"
)

var (
	digitRun  = regexp.MustCompile(`\d+`)
	cnNumeral = regexp.MustCompile(`第([一二三四五六七八九十百千万]+)[章回节卷]`)
)

var numeralValues = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
	'十': 10, '百': 100, '千': 1000, '万': 10000,
}

// Number extracts the chapter number from a heading title. The first run
// of decimal digits wins; otherwise a Chinese numeral between the heading
// keyword and its suffix is converted positionally. Titles with neither
// report ok false.
func Number(title string) (int, bool) {
	if run := digitRun.FindString(title); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return n, true
		}
	}
	if m := cnNumeral.FindStringSubmatch(title); m != nil {
		return fromNumerals(m[1]), true
	}
	return 0, false
}

// fromNumerals converts a Chinese numeral sequence to an integer. A unit
// digit sets a pending value; a multiplier digit (ten and above) scales
// the pending value, defaulting it to one, and resets it. Any trailing
// pending value is added at the end, so 十 is 10 and 二十三 is 23.
func fromNumerals(s string) int {
	total, pending := 0, 0
	for _, r := range s {
		v := numeralValues[r]
		if v < 10 {
			pending = v
			continue
		}
		if pending == 0 {
			pending = 1
		}
		total += pending * v
		pending = 0
	}
	return total + pending
}
