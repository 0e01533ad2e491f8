package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// parseKelvin accepts "4000" or "4000K"
func parseKelvin(arg string) (int, error) {
	s := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(arg), "K"), "k")
	kelvin, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color temperature %q: %w", arg, err)
	}
	return kelvin, nil
}
