// Debug tooling. Dumps a named runtime profile in response to an HTTP
// request at
// 		http(s)://<host-name>/<configured-path>/<profile-name>
// See https://golang.org/pkg/runtime/pprof/#Profile for profile names.

package main

import (
	"fmt"
	"net/http"
	"path"
	"runtime/pprof"
	"strings"

	"github.com/hiddenjvc/server/server/logs"
)

var pprofHttpRoot string

// servePprof mounts the profile dump handler at the given URL path.
// An empty path or "-" leaves profiling unexposed.
func servePprof(mux *http.ServeMux, serveAt string) {
	if serveAt == "" || serveAt == "-" {
		return
	}

	pprofHttpRoot = path.Clean("/"+serveAt) + "/"
	mux.HandleFunc(pprofHttpRoot, profileHandler)

	logs.Info.Printf("pprof: profiling info exposed at '%s'", pprofHttpRoot)
}

func profileHandler(wrt http.ResponseWriter, req *http.Request) {
	wrt.Header().Set("X-Content-Type-Options", "nosniff")
	wrt.Header().Set("Content-Type", "text/plain; charset=utf-8")

	name := strings.TrimPrefix(req.URL.Path, pprofHttpRoot)
	profile := pprof.Lookup(name)
	if profile == nil {
		wrt.Header().Set("X-Go-Pprof", "1")
		wrt.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(wrt, "Unknown profile '%s'\n", name)
		return
	}

	profile.WriteTo(wrt, 2)
}
