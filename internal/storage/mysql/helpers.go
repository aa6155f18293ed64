package mysql

import "strings"

func placeholders(n int) string {
	return strings.TrimRight(strings.Repeat("?,", n), ",")
}

// nullable maps an empty string to NULL so optional text columns stay NULL
// instead of collecting empty strings.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
