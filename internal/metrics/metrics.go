// Package metrics counts task operations and storage failures on a private
// Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Operation results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Storage error kinds.
const (
	KindRead    = "read"
	KindCorrupt = "corrupt"
	KindWrite   = "write"
)

// Recorder holds the collectors for one running instance.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	tasks         *prometheus.GaugeVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmgr_operations_total",
			Help: "Task operations by name and result.",
		}, []string{"operation", "result"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmgr_storage_errors_total",
			Help: "Storage failures by collection and kind.",
		}, []string{"collection", "kind"}),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taskmgr_tasks",
			Help: "Tasks currently held in memory per collection.",
		}, []string{"collection"}),
	}
	r.registry.MustRegister(r.operations, r.storageErrors, r.tasks)
	return r
}

// Operation counts one operation outcome.
func (r *Recorder) Operation(name, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(name, result).Inc()
}

// StorageError counts one storage failure.
func (r *Recorder) StorageError(collection, kind string) {
	if r == nil {
		return
	}
	r.storageErrors.WithLabelValues(collection, kind).Inc()
}

// SetTasks records the in-memory size of a collection.
func (r *Recorder) SetTasks(collection string, n int) {
	if r == nil {
		return
	}
	r.tasks.WithLabelValues(collection).Set(float64(n))
}

// OperationsCounter exposes the operations counter for assertions.
func (r *Recorder) OperationsCounter() *prometheus.CounterVec { return r.operations }

// StorageErrorsCounter exposes the storage error counter for assertions.
func (r *Recorder) StorageErrorsCounter() *prometheus.CounterVec { return r.storageErrors }

// Gather collects the current metric families.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	if r == nil {
		return nil, nil
	}
	return r.registry.Gather()
}
