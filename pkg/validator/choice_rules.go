package validator

import (
	"fmt"
	"slices"
)

// InList validates that value is one of allowedValues.
func InList[T comparable](field string, value T, allowedValues []T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowedValues, value) },
		Error: newError(field, fmt.Sprintf("must be one of: %v", allowedValues), "validation.in_list",
			map[string]any{"allowed_values": allowedValues}),
	}
}
