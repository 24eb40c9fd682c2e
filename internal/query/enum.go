package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEnum resolves s against names, ignoring case. The numeric index of a
// name is accepted too.
func ParseEnum(names []string, s string) (int, error) {
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}
	return 0, fmt.Errorf("must be one of %s", strings.Join(names, ", "))
}

// EnumName returns names[i], or a placeholder for values outside the enum.
func EnumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "Order(" + strconv.Itoa(i) + ")"
	}
	return names[i]
}
