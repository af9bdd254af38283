package repository

import "regexp"

// Server duplicate-key errors read like:
//
//	E11000 duplicate key error collection: pedlop.auth_users index: username_1
//	dup key: { username: "joe" }
//
// The dup-key document names the colliding field and its value.
var dupKeyPattern = regexp.MustCompile(`dup key: \{\s*([A-Za-z0-9_]+):\s*"([^"]*)"`)

// duplicateKeyDetails extracts which unique field collided and its offending
// value. Best effort: callers fall back to a generic save failure when the
// message cannot be parsed.
func duplicateKeyDetails(err error) (field string, value string, ok bool) {
	if err == nil {
		return "", "", false
	}

	m := dupKeyPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return "", "", false
	}

	return m[1], m[2], true
}
