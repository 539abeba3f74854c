package wheel

import (
	"fmt"
	"strings"
)

// ValidateOptions checks that every weight is usable for geometry.
// An empty set is valid; it just cannot be spun.
func ValidateOptions(set OptionSet) error {
	var errs []string
	for i, o := range set {
		if o.Weight < 1 || o.Weight > MaxWeight {
			errs = append(errs, fmt.Sprintf("options[%d].weight must be in [1, %d] (got %d)", i, MaxWeight, o.Weight))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWeight, strings.Join(errs, "; "))
	}
	return nil
}
