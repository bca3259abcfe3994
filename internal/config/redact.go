package config

import (
	"net/url"
	"strings"
)

// RedactURL replaces the password in a database connection URL with "***".
// It works on the raw string so the rest of the URL survives byte for byte,
// which matters when the URL is echoed back for copy-pasting. URLs without
// userinfo (sqlite file paths, token-authenticated remotes) pass through
// unchanged.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}

	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}

	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return raw
	}

	userinfo, hostAndAfter, found := strings.Cut(rest, "@")
	if !found {
		return raw
	}

	username, _, found := strings.Cut(userinfo, ":")
	if !found {
		return raw
	}

	return scheme + "://" + username + ":***@" + hostAndAfter
}
