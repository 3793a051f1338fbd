// Generic data manipulation utilities.

package main

import (
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/hiddenjvc/server/server/store/types"
)

// parseUidSlice converts a list of id strings to Uids. Returns nil if any
// entry fails to parse.
func parseUidSlice(ids []string) []types.Uid {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.Uid, 0, len(ids))
	for _, s := range ids {
		uid := types.ParseUid(s)
		if uid.IsZero() {
			return nil
		}
		out = append(out, uid)
	}
	return out
}

// toAbsolutePath converts a relative filepath to absolute.
func toAbsolutePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(base, path))
}

// Parse one component of a semantic version string.
func parseVersionPart(vers string) int {
	end := strings.IndexFunc(vers, func(r rune) bool {
		return !unicode.IsDigit(r)
	})

	t := 0
	var err error
	if end > 0 {
		t, err = strconv.Atoi(vers[:end])
	} else if len(vers) > 0 {
		t, err = strconv.Atoi(vers)
	}
	if err != nil || t > 0x1fff || t <= 0 {
		t = 0
	}
	return t
}

// parseVersion parses a semantic version string in the formats:
// 1.2, 1.2abc, 1.2.3, 1.2.3-abc. Failure to parse returns zero.
func parseVersion(vers string) int {
	var major, minor, trailer int

	dot := strings.Index(vers, ".")
	if dot >= 0 {
		major = parseVersionPart(vers[:dot])
		vers = vers[dot+1:]
	} else {
		major = parseVersionPart(vers)
		vers = ""
	}

	dot2 := strings.IndexFunc(vers, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	if dot2 > 0 {
		minor = parseVersionPart(vers[:dot2])
		vers = vers[dot2+1:]
	} else {
		minor = parseVersionPart(vers)
		vers = ""
	}

	trailer = parseVersionPart(vers)

	if major < 0 || minor < 0 || trailer < 0 || minor >= 0xff || trailer >= 0xff {
		return 0
	}

	return (major << 16) | (minor << 8) | trailer
}

// base10Version converts a base-16 encoded version into a base 10 number.
func base10Version(hex int) int64 {
	major := hex >> 16 & 0xff
	minor := hex >> 8 & 0xff
	trailer := hex & 0xff
	return int64(major*10000 + minor*100 + trailer)
}

// isRoutableIP checks if the given string is a routable public IP address.
func isRoutableIP(addrPort string) bool {
	addr, _, err := net.SplitHostPort(addrPort)
	if err != nil {
		addr = addrPort
	}
	ip := net.ParseIP(addr)
	return ip != nil && !ip.IsUnspecified() && !ip.IsLoopback() &&
		!ip.IsPrivate() && !ip.IsLinkLocalUnicast() && !ip.IsLinkLocalMulticast()
}

// remoteAddress returns the remote network identity of the request:
// the leftmost routable X-Forwarded-For entry when the server is
// configured to trust the header, the connection's address otherwise.
// The port is stripped so all tabs of one client map to the same key.
func remoteAddress(req *http.Request) string {
	var addr string
	if globals.useXForwardedFor {
		addr = req.Header.Get("X-Forwarded-For")
		if i := strings.IndexByte(addr, ','); i >= 0 {
			addr = addr[:i]
		}
		addr = strings.TrimSpace(addr)
		if !isRoutableIP(addr) {
			addr = ""
		}
	}
	if addr == "" {
		addr = req.RemoteAddr
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return addr
}
