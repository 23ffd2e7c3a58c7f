package validator

import "fmt"

// MaxLenSlice validates that value has at most max items.
func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: newError(field, fmt.Sprintf("must have at most %d items", max), "validation.max_items",
			map[string]any{"max": max}),
	}
}
