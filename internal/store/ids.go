package store

import (
	"fmt"
	"strconv"
	"strings"
)

const installationIDPrefix = "INST-"

// NextNumericID returns max(id)+1 over items, or 1 for an empty list.
func NextNumericID[T any, N int | int64](items []T, id func(T) N) N {
	var max N
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

// NextInstallationID returns INST- followed by the zero-padded successor of
// the largest numeric suffix in use. Identifiers without a numeric suffix
// are ignored; an empty list yields INST-001.
func NextInstallationID(items []Installation) string {
	max := 0
	for _, inst := range items {
		if n, ok := installationNumber(inst.ID); ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", installationIDPrefix, max+1)
}

func installationNumber(id string) (int, bool) {
	suffix, ok := strings.CutPrefix(id, installationIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
