// Standalone metrics exporter: scrapes the forum server's expvar endpoint
// and re-publishes the numbers in Prometheus exposition format.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type promHTTPLogger struct{}

func (l promHTTPLogger) Println(v ...interface{}) {
	log.Println(v...)
}

func main() {
	log.Printf("Forum metrics exporter.")

	var (
		serverAddr  = flag.String("server_addr", "http://localhost:6060/debug/vars", "Address of the server instance to scrape.")
		listenAt    = flag.String("listen_at", ":6222", "Host name and port to listen for incoming requests on.")
		metricsPath = flag.String("metrics_path", "/metrics", "Path under which to expose metrics for Prometheus scrapes.")
		namespace   = flag.String("namespace", "hiddenjvc", "Prometheus namespace for metrics '<namespace>_...'")
		timeout     = flag.Int("timeout", 15, "Server connection timeout in seconds in response to Prometheus scrapes.")
	)
	flag.Parse()

	if *metricsPath == "" || *metricsPath == "/" {
		log.Fatal("Serving metrics from / is not supported")
	}

	// Index page at web root.
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Forum Exporter</title></head><body>
<h1>Forum Exporter</h1>
<p>Metrics path: <a href='` + *metricsPath + `'>Metrics</a></p>
</body></html>`))
	})

	scraper := Scraper{address: *serverAddr}
	promExporter := NewPromExporter(*serverAddr, *namespace, time.Duration(*timeout)*time.Second, &scraper)
	registry := prometheus.NewRegistry()
	registry.MustRegister(promExporter)
	http.Handle(*metricsPath,
		promhttp.InstrumentMetricHandler(
			registry,
			promhttp.HandlerFor(
				registry,
				promhttp.HandlerOpts{
					ErrorLog: &promHTTPLogger{},
					Timeout:  time.Duration(*timeout) * time.Second,
				},
			),
		),
	)

	log.Println("Reading server expvar from", *serverAddr)
	log.Printf("Serving metrics at %s%s", *listenAt, *metricsPath)
	log.Fatalln(http.ListenAndServe(*listenAt, nil))
}
