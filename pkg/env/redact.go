package env

import (
	"net/url"
	"strings"
)

// RedactSecret masks a secret value, showing only the first 4
// and last 4 characters.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] +
		strings.Repeat("*", len(secret)-8) +
		secret[len(secret)-4:]
}

// RedactURL masks credentials embedded in a URL string.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		password, hasPassword := u.User.Password()
		if hasPassword {
			u.User = url.UserPassword(
				u.User.Username(), RedactSecret(password))
		}
	}
	return u.String()
}

// secretMarkers are substrings of variable names that indicate
// a secret-bearing value.
var secretMarkers = []string{
	"TOKEN", "SECRET", "PASSWORD", "PASSWD",
	"API_KEY", "APIKEY", "CREDENTIAL", "AUTH",
}

// IsSecretName reports whether an environment variable name
// looks like it carries a secret.
func IsSecretName(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// RedactEnv masks secret-bearing values in an environment map
// so logs and reports never leak them.
func RedactEnv(vars map[string]string) map[string]string {
	result := make(map[string]string, len(vars))
	for k, v := range vars {
		if IsSecretName(k) {
			result[k] = RedactSecret(v)
		} else {
			result[k] = v
		}
	}
	return result
}
