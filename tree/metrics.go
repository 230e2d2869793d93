package tree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var nodesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treekit_nodes_created_total",
	Help: "Number of tree nodes created, roots included",
})

var nodesDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treekit_nodes_deleted_total",
	Help: "Number of tree nodes deleted or torn down",
})

var tracesFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "treekit_traces_fired_total",
	Help: "Number of value trace callbacks invoked",
}, []string{"mode"})

var eventsFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "treekit_events_fired_total",
	Help: "Number of structural event callbacks invoked",
}, []string{"event"})

var callbackErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treekit_callback_errors_total",
	Help: "Number of trace and event callback failures sent to the error reporter",
})
