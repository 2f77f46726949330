package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// OperationMetrics tracks request counts and timing for one store operation.
type OperationMetrics struct {
	Operation             string        `json:"operation"`
	TotalRequests         int64         `json:"total_requests"`
	SuccessfulRequests    int64         `json:"successful_requests"`
	FailedRequests        int64         `json:"failed_requests"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	LastUpdated           time.Time     `json:"last_updated"`
}

// ServiceMetrics tracks performance and success metrics per operation for a
// service.
type ServiceMetrics struct {
	serviceName string
	mutex       sync.RWMutex
	operations  map[string]*OperationMetrics
}

// MetricsSnapshot is a point-in-time copy of all tracked operations.
type MetricsSnapshot struct {
	ServiceName string             `json:"service_name"`
	Operations  []OperationMetrics `json:"operations"`
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		serviceName: serviceName,
		operations:  make(map[string]*OperationMetrics),
	}
}

// RecordRequest records one request for an operation with its success status
// and processing time.
func (m *ServiceMetrics) RecordRequest(operation string, success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	op, exists := m.operations[operation]
	if !exists {
		op = &OperationMetrics{Operation: operation}
		m.operations[operation] = op
	}

	op.TotalRequests++
	op.TotalProcessingTime += processingTime
	op.AverageProcessingTime = time.Duration(int64(op.TotalProcessingTime) / op.TotalRequests)

	if success {
		op.SuccessfulRequests++
	} else {
		op.FailedRequests++
	}

	op.LastUpdated = time.Now()
}

// GetSuccessRate returns the success rate for an operation as a percentage.
func (m *ServiceMetrics) GetSuccessRate(operation string) float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	op, exists := m.operations[operation]
	if !exists || op.TotalRequests == 0 {
		return 0.0
	}

	return float64(op.SuccessfulRequests) / float64(op.TotalRequests) * 100.0
}

// GetSnapshot returns a thread-safe snapshot of current metrics
func (m *ServiceMetrics) GetSnapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snapshot := MetricsSnapshot{ServiceName: m.serviceName}
	for _, op := range m.operations {
		snapshot.Operations = append(snapshot.Operations, *op)
	}
	return snapshot
}

// LogSummary logs a metrics summary for every tracked operation.
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.GetSnapshot()

	for _, op := range snapshot.Operations {
		logrus.WithFields(logrus.Fields{
			"service_name":            snapshot.ServiceName,
			"operation":               op.Operation,
			"total_requests":          op.TotalRequests,
			"successful_requests":     op.SuccessfulRequests,
			"failed_requests":         op.FailedRequests,
			"average_processing_time": op.AverageProcessingTime,
			"last_updated":            op.LastUpdated,
		}).Info("Service metrics summary")
	}
}
