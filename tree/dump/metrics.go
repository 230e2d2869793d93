package dump

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var recordsDumped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treekit_dump_records_total",
	Help: "Number of node records written by Dump",
})

var recordsRestored = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "treekit_restore_records_total",
	Help: "Number of records applied by Restore",
}, []string{"format"})

var restoreFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treekit_restore_failures_total",
	Help: "Number of restores aborted by malformed input",
})
