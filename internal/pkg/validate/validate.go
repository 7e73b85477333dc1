package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Username folds a submitted username into its stored form.
func Username(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
