package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent describes one step in a screenshot analysis lifecycle
type AnalysisEvent struct {
	EventType       EventType              `json:"event_type"`
	Timestamp       time.Time              `json:"timestamp"`
	ScreenshotURL   string                 `json:"screenshot_url,omitempty"`
	ScreenshotIndex int                    `json:"screenshot_index"`
	ProcessingTime  time.Duration          `json:"processing_time"`
	Success         bool                   `json:"success"`
	ErrorMessage    string                 `json:"error_message,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// ScreenshotAnalysisStarted when a single screenshot analysis begins
	ScreenshotAnalysisStarted EventType = "screenshot_analysis_started"
	// ScreenshotAnalysisCompleted when a single screenshot analysis succeeds
	ScreenshotAnalysisCompleted EventType = "screenshot_analysis_completed"
	// ScreenshotAnalysisFailed when a single screenshot analysis fails
	ScreenshotAnalysisFailed EventType = "screenshot_analysis_failed"
	// BatchAnalysisCompleted when a batch finishes (successes and failures
	// both recorded); ScreenshotIndex carries the batch size
	BatchAnalysisCompleted EventType = "batch_analysis_completed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type":       event.EventType,
		"screenshot_index": event.ScreenshotIndex,
		"processing_time":  event.ProcessingTime,
		"success":          event.Success,
	}
	if event.ScreenshotURL != "" {
		fields["screenshot_url"] = event.ScreenshotURL
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case ScreenshotAnalysisStarted:
		o.logger.WithFields(fields).Debug("Screenshot analysis started")
	case ScreenshotAnalysisCompleted:
		o.logger.WithFields(fields).Info("Screenshot analysis completed")
	case ScreenshotAnalysisFailed:
		o.logger.WithFields(fields).Error("Screenshot analysis failed")
	case BatchAnalysisCompleted:
		o.logger.WithFields(fields).Info("Batch analysis completed")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from analysis events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	successfulAnalyses  int64
	failedAnalyses      int64
	batchesCompleted    int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles analysis events by collecting counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ScreenshotAnalysisStarted:
		o.totalAnalyses++
	case ScreenshotAnalysisCompleted:
		o.successfulAnalyses++
		o.totalProcessingTime += event.ProcessingTime
	case ScreenshotAnalysisFailed:
		o.failedAnalyses++
	case BatchAnalysisCompleted:
		o.batchesCompleted++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulAnalyses > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulAnalyses)
	}

	return map[string]interface{}{
		"total_analyses":        o.totalAnalyses,
		"successful_analyses":   o.successfulAnalyses,
		"failed_analyses":       o.failedAnalyses,
		"batches_completed":     o.batchesCompleted,
		"total_processing_time": o.totalProcessingTime.String(),
		"avg_processing_time":   avgProcessingTime.String(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Observers run inline:
// the batch loop is the only producer and observers are cheap counters and
// log writes, so ordering stays deterministic.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(obs)
	}
}
