package service

import "regexp"

// keyPattern matches API key query parameter values, including those
// embedded in *url.Error messages.
var keyPattern = regexp.MustCompile(`(?i)([?&](?:key|api_?key)=)[^&\s"]+`)

// Redact masks API key query values in s so URLs and errors can be logged.
func Redact(s string) string {
	return keyPattern.ReplaceAllString(s, "${1}[REDACTED]")
}
