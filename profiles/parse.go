package profiles

import "strconv"

// parseUserID parses a user id path parameter.
func parseUserID(raw string) (int, error) {
	return strconv.Atoi(raw)
}
