// Package domain contains core business types and interfaces.
//
// This file defines access codes and the permission-token vocabulary they
// carry. A code's token list mixes two kinds of entries:
//
//   - plain permission keys (e.g. "premium_access") which become grant rows
//   - quota directives of the form "request_quota_<n>" which raise the
//     user's monthly request quota
package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// quotaDirectivePattern matches quota directive tokens. Only an all-digit
// suffix counts; anything else is treated as an ordinary permission key.
var quotaDirectivePattern = regexp.MustCompile(`^request_quota_(\d+)$`)

// AccessCode represents a redeemable access code.
//
// Codes are compared case-insensitively: the stored code_string is always
// uppercase and submitted codes are uppercased before lookup.
type AccessCode struct {
	ID          int64
	CodeString  string
	Description string
	IsActive    bool
	Permissions []string // ordered token list
	CreatedAt   time.Time
}

// NormalizeCode canonicalizes a submitted code string for lookup and for the
// granted_by_code audit label.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseQuotaDirective reports whether the token is a quota directive and, if
// so, returns the quota value it encodes.
func ParseQuotaDirective(token string) (int, bool) {
	m := quotaDirectivePattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Digits already guaranteed by the pattern; Atoi can only fail on
		// overflow, which we treat as not-a-directive rather than a grant
		// of a nonsense quota.
		return 0, false
	}
	return n, true
}

// SplitPermissions partitions a code's token list into plain permission keys
// and the highest quota value found among quota directives.
//
// The quota is the maximum across directives, not their sum: redeeming a code
// with ["request_quota_5", "request_quota_10"] yields quotaToAdd = 10.
// A zero return for quotaToAdd means no directive was present (or all were
// zero) and the quota merge step should be skipped.
func SplitPermissions(tokens []string) (keys []string, quotaToAdd int) {
	for _, tok := range tokens {
		if n, ok := ParseQuotaDirective(tok); ok {
			if n > quotaToAdd {
				quotaToAdd = n
			}
			continue
		}
		keys = append(keys, tok)
	}
	return keys, quotaToAdd
}

// MergeQuota applies the monotonic quota ratchet: the stored quota is raised
// to the code's quota value but never lowered.
func MergeQuota(current, quotaToAdd int) int {
	if quotaToAdd > current {
		return quotaToAdd
	}
	return current
}

// CreateCodeParams contains the validated parameters for creating a code.
type CreateCodeParams struct {
	CodeString  string
	Description string
	Permissions []string
	IsActive    bool
}
