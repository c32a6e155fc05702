package domain

import (
	"reflect"
	"testing"
)

// =============================================================================
// Code Normalization Tests
// =============================================================================

func TestNormalizeCode(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "welcome10", "WELCOME10"},
		{"mixed case", "WeLcOmE10", "WELCOME10"},
		{"already uppercase", "VIP", "VIP"},
		{"surrounding whitespace", "  vip  ", "VIP"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeCode(tc.input); got != tc.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// =============================================================================
// Quota Directive Tests
// =============================================================================

func TestParseQuotaDirective(t *testing.T) {
	testCases := []struct {
		name      string
		token     string
		wantQuota int
		wantOK    bool
	}{
		{"simple directive", "request_quota_10", 10, true},
		{"zero", "request_quota_0", 0, true},
		{"large value", "request_quota_1000", 1000, true},
		{"plain permission key", "premium_access", 0, false},
		{"missing digits", "request_quota_", 0, false},
		{"non-digit suffix", "request_quota_abc", 0, false},
		{"mixed suffix", "request_quota_10x", 0, false},
		{"prefix only", "request_quota", 0, false},
		{"embedded, not prefix", "xrequest_quota_10", 0, false},
		{"negative is not a directive", "request_quota_-5", 0, false},
		{"empty token", "", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quota, ok := ParseQuotaDirective(tc.token)
			if ok != tc.wantOK {
				t.Fatalf("ParseQuotaDirective(%q) ok = %v, want %v", tc.token, ok, tc.wantOK)
			}
			if quota != tc.wantQuota {
				t.Errorf("ParseQuotaDirective(%q) quota = %d, want %d", tc.token, quota, tc.wantQuota)
			}
		})
	}
}

func TestSplitPermissions(t *testing.T) {
	testCases := []struct {
		name      string
		tokens    []string
		wantKeys  []string
		wantQuota int
	}{
		{
			name:      "keys only",
			tokens:    []string{"premium_access", "bonus_content"},
			wantKeys:  []string{"premium_access", "bonus_content"},
			wantQuota: 0,
		},
		{
			name:      "directive only",
			tokens:    []string{"request_quota_10"},
			wantKeys:  nil,
			wantQuota: 10,
		},
		{
			name:      "mixed",
			tokens:    []string{"premium_access", "request_quota_2"},
			wantKeys:  []string{"premium_access"},
			wantQuota: 2,
		},
		{
			name:      "multiple directives take the max",
			tokens:    []string{"request_quota_5", "request_quota_10", "request_quota_3"},
			wantKeys:  nil,
			wantQuota: 10,
		},
		{
			name:      "near-miss directive is a key",
			tokens:    []string{"request_quota_abc"},
			wantKeys:  []string{"request_quota_abc"},
			wantQuota: 0,
		},
		{
			name:      "empty list",
			tokens:    nil,
			wantKeys:  nil,
			wantQuota: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			keys, quota := SplitPermissions(tc.tokens)
			if !reflect.DeepEqual(keys, tc.wantKeys) {
				t.Errorf("keys = %v, want %v", keys, tc.wantKeys)
			}
			if quota != tc.wantQuota {
				t.Errorf("quota = %d, want %d", quota, tc.wantQuota)
			}
		})
	}
}

// =============================================================================
// Quota Merge Tests
// =============================================================================

func TestMergeQuota_Monotonic(t *testing.T) {
	testCases := []struct {
		name    string
		current int
		add     int
		want    int
	}{
		{"raise from zero", 0, 10, 10},
		{"raise", 2, 10, 10},
		{"never lowers", 10, 2, 10},
		{"equal is unchanged", 5, 5, 5},
		{"zero directive is unchanged", 7, 0, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MergeQuota(tc.current, tc.add); got != tc.want {
				t.Errorf("MergeQuota(%d, %d) = %d, want %d", tc.current, tc.add, got, tc.want)
			}
		})
	}
}

// Redeeming the same code twice must not change the quota the second time.
func TestMergeQuota_Idempotent(t *testing.T) {
	first := MergeQuota(2, 10)
	second := MergeQuota(first, 10)
	if second != first {
		t.Errorf("second merge changed quota: %d -> %d", first, second)
	}
}
