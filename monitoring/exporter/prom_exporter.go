package main

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromExporter collects metrics in Prometheus format from a forum server.
type PromExporter struct {
	address   string
	timeout   time.Duration
	namespace string

	scraper *Scraper

	up                 *prometheus.Desc
	version            *prometheus.Desc
	sessionsLive       *prometheus.Desc
	sessionsTotal      *prometheus.Desc
	presenceForumsLive *prometheus.Desc
	presenceTopicsLive *prometheus.Desc
	moderationActions  *prometheus.Desc
	postsThrottled     *prometheus.Desc
	websockMessagesIn  *prometheus.Desc
	websockMessagesOut *prometheus.Desc
	malloced           *prometheus.Desc
}

// NewPromExporter returns an initialized Prometheus exporter.
func NewPromExporter(server, namespace string, timeout time.Duration, scraper *Scraper) *PromExporter {
	return &PromExporter{
		address:   server,
		timeout:   timeout,
		namespace: namespace,
		scraper:   scraper,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "up"),
			"If the server instance is reachable.",
			nil,
			nil,
		),
		version: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "version"),
			"The version of this server instance.",
			nil,
			nil,
		),
		sessionsLive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_live_count"),
			"Number of currently active sessions.",
			nil,
			nil,
		),
		sessionsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_total"),
			"Total number of sessions since instance start.",
			nil,
			nil,
		),
		presenceForumsLive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "presence_forums_live_count"),
			"Number of forums with at least one live viewer.",
			nil,
			nil,
		),
		presenceTopicsLive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "presence_topics_live_count"),
			"Number of topics with at least one live viewer.",
			nil,
			nil,
		),
		moderationActions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "moderation_actions_total"),
			"Total number of moderation actions applied since instance start.",
			nil,
			nil,
		),
		postsThrottled: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "posts_throttled_total"),
			"Total number of posts rejected by the posting cooldown.",
			nil,
			nil,
		),
		websockMessagesIn: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "websock_messages_in_total"),
			"Total number of messages received over websocket connections.",
			nil,
			nil,
		),
		websockMessagesOut: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "websock_messages_out_total"),
			"Total number of messages sent over websocket connections.",
			nil,
			nil,
		),
		malloced: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "malloced_bytes"),
			"Number of bytes of memory allocated and in use.",
			nil,
			nil,
		),
	}
}

// Describe describes all the metrics exported by the forum exporter. It
// implements prometheus.Collector.
func (e *PromExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.up
	ch <- e.version
	ch <- e.sessionsLive
	ch <- e.sessionsTotal
	ch <- e.presenceForumsLive
	ch <- e.presenceTopicsLive
	ch <- e.moderationActions
	ch <- e.postsThrottled
	ch <- e.websockMessagesIn
	ch <- e.websockMessagesOut
	ch <- e.malloced
}

// Collect fetches statistics from the configured server instance, and
// delivers them as Prometheus metrics. It implements prometheus.Collector.
func (e *PromExporter) Collect(ch chan<- prometheus.Metric) {
	up := float64(1)
	if stats, err := e.scraper.Scrape(); err != nil {
		log.Println("Failed to fetch or parse response", err)
		up = 0
	} else {
		if err := e.parseStats(ch, stats); err != nil {
			up = 0
		}
	}

	ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, up)
}

func (e *PromExporter) parseStats(ch chan<- prometheus.Metric, stats map[string]interface{}) error {
	err := firstError(
		e.parseAndUpdate(ch, e.version, prometheus.GaugeValue, stats, "Version"),
		e.parseAndUpdate(ch, e.sessionsLive, prometheus.GaugeValue, stats, "LiveSessions"),
		e.parseAndUpdate(ch, e.sessionsTotal, prometheus.CounterValue, stats, "TotalSessions"),
		e.parseAndUpdate(ch, e.presenceForumsLive, prometheus.GaugeValue, stats, "LivePresenceForums"),
		e.parseAndUpdate(ch, e.presenceTopicsLive, prometheus.GaugeValue, stats, "LivePresenceTopics"),
		e.parseAndUpdate(ch, e.moderationActions, prometheus.CounterValue, stats, "ModerationActionsTotal"),
		e.parseAndUpdate(ch, e.postsThrottled, prometheus.CounterValue, stats, "PostsThrottledTotal"),
		e.parseAndUpdate(ch, e.websockMessagesIn, prometheus.CounterValue, stats, "IncomingMessagesWebsockTotal"),
		e.parseAndUpdate(ch, e.websockMessagesOut, prometheus.CounterValue, stats, "OutgoingMessagesWebsockTotal"),
		e.parseAndUpdate(ch, e.malloced, prometheus.GaugeValue, stats, "memstats.Alloc"),
	)

	return err
}

func (e *PromExporter) parseAndUpdate(ch chan<- prometheus.Metric, desc *prometheus.Desc, valueType prometheus.ValueType,
	stats map[string]interface{}, key string) error {
	if v, err := parseMetric(stats, key); err == nil {
		ch <- prometheus.MustNewConstMetric(desc, valueType, v)
		return nil
	} else {
		return err
	}
}

func firstError(errs ...error) error {
	for _, v := range errs {
		if v != nil {
			return v
		}
	}
	return nil
}
