package metrics

import (
	"bannerapi/internal/imagestage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stager wraps another imagestage.Stager and exports latency, failures and
// staged bytes to Prometheus.
type Stager struct {
	next            imagestage.Stager
	duration        *prometheus.HistogramVec
	operationErrors *prometheus.CounterVec
	stagedBytes     prometheus.Counter
}

func New(next imagestage.Stager, namespace string, reg prometheus.Registerer) (*Stager, error) {
	if namespace == "" {
		namespace = "banner_image_stage"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &Stager{
		next: next,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of image stage operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed image stage operations.",
		}, []string{"operation"}),
		stagedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staged_bytes_total",
			Help:      "Cumulative size of successfully staged images.",
		}),
	}

	var err error
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.operationErrors, err = register(reg, s.operationErrors); err != nil {
		return nil, err
	}
	if s.stagedBytes, err = register(reg, s.stagedBytes); err != nil {
		return nil, err
	}

	return s, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register image stage metric: %w", err)
	}
	return c, nil
}

func (s *Stager) Stage(ctx context.Context, data []byte, ext string) (string, error) {
	start := time.Now()
	ref, err := s.next.Stage(ctx, data, ext)
	s.observe("stage", start, err)
	if err == nil {
		s.stagedBytes.Add(float64(len(data)))
	}
	return ref, err
}

func (s *Stager) Discard(ctx context.Context, ref string) error {
	start := time.Now()
	err := s.next.Discard(ctx, ref)
	s.observe("discard", start, err)
	return err
}

func (s *Stager) observe(op string, start time.Time, err error) {
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.operationErrors.WithLabelValues(op).Inc()
	}
}
