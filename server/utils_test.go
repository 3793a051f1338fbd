package main

import (
	"net/http"
	"testing"

	"github.com/hiddenjvc/server/server/store/types"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		vers string
		want int
	}{
		{"0.1", 0x000100},
		{"1.2", 0x010200},
		{"1.2.3", 0x010203},
		{"1.2.3-rc4", 0x010203},
		{"10.255.255", 0},
		{"garbage", 0},
	}
	for _, tc := range tests {
		if got := parseVersion(tc.vers); got != tc.want {
			t.Errorf("parseVersion(%q): expected 0x%06x, got 0x%06x", tc.vers, tc.want, got)
		}
	}

	if got := base10Version(0x010203); got != 10203 {
		t.Errorf("base10Version: expected 10203, got %d", got)
	}
}

func TestParseUidSlice(t *testing.T) {
	a, b := types.Uid(777001), types.Uid(777002)
	got := parseUidSlice([]string{a.String(), b.String()})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("expected [%s %s], got %v", a.String(), b.String(), got)
	}

	// One bad id poisons the whole slice.
	if got = parseUidSlice([]string{a.String(), "bogus"}); got != nil {
		t.Errorf("expected nil for a list with a bad id, got %v", got)
	}
	if got = parseUidSlice(nil); got != nil {
		t.Errorf("expected nil for an empty list, got %v", got)
	}
}

func TestRemoteAddress(t *testing.T) {
	defer func() { globals.useXForwardedFor = false }()

	req := &http.Request{RemoteAddr: "203.0.113.7:49152", Header: http.Header{}}
	req.Header.Set("X-Forwarded-For", "198.51.100.1:2345, 10.0.0.1")

	globals.useXForwardedFor = false
	if got := remoteAddress(req); got != "203.0.113.7" {
		t.Errorf("header ignored: expected 203.0.113.7, got %s", got)
	}

	globals.useXForwardedFor = true
	if got := remoteAddress(req); got != "198.51.100.1" {
		t.Errorf("header trusted: expected 198.51.100.1, got %s", got)
	}

	// A non-routable forwarded address falls back to the connection.
	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	if got := remoteAddress(req); got != "203.0.113.7" {
		t.Errorf("private forwarded address: expected 203.0.113.7, got %s", got)
	}
}
