package globotopo

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "globotopo"
)

var (
	Fetched      prometheus.Counter
	FetchedBytes prometheus.Counter
	FetchErrors  prometheus.Counter
)

func init() {
	Fetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetched",
		Help:      "Files fetched",
	})
	FetchedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetched_bytes",
		Help:      "Bytes fetched",
	})
	FetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors",
		Help:      "Failed fetches",
	})
	prometheus.MustRegister(Fetched, FetchedBytes, FetchErrors)
}
