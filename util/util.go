package util

import (
	"regexp"
	"strings"
)

var txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// TrimHexPrefix strips a leading 0x/0X from a hex string.
func TrimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// IsTxHash reports whether s looks like a 32-byte transaction hash.
func IsTxHash(s string) bool {
	return txHashRe.MatchString(s)
}
