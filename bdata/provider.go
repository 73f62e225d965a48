package bdata

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/52Jolynn/bindb/data"
	"github.com/52Jolynn/bindb/mod"
)

// Lookup outcomes reported to an Observer.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeNotReady = "not_ready"
	OutcomeFailed   = "unavailable"
)

// Observer receives lookup and load events, metrics.Collector implements it.
type Observer interface {
	ObserveLookup(kind, outcome string)
	ObserveLoad(state string, records, skipped int, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLookup(string, string)                {}
func (nopObserver) ObserveLoad(string, int, int, time.Duration) {}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service answers BIN queries. All handlers share one Service; the index
// behind it becomes visible only through the Gate.
type Service struct {
	gate     Gate
	observer Observer
	now      func() time.Time
	started  time.Time
}

func NewService(opts ...Option) *Service {
	s := &Service{observer: nopObserver{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	return s
}

// Load reads the data file and publishes the result to the gate. A failure
// leaves the service degraded, it is logged and returned but never retried.
func (s *Service) Load(ctx context.Context, fs afero.Fs, path string) LoadResult {
	start := s.now()
	logger.Infof("loading bin data, path: %s", path)

	idx, report, err := LoadFile(ctx, fs, path)
	result := LoadResult{Index: idx, Report: report, Err: err}
	s.gate.Publish(result)

	elapsed := s.now().Sub(start)
	if err != nil {
		if le, ok := err.(*LoadError); ok && le.IsNotExist() {
			logger.Errorf("bin data file not found, service is degraded, path: %s", path)
		} else {
			logger.Errorf("load bin data failed, service is degraded, error: %s", err)
		}
		s.observer.ObserveLoad(StateFailed.String(), 0, report.Skipped, elapsed)
		return result
	}

	entry := logger.WithFields(logger.Fields{
		"path":       report.Path,
		"records":    idx.Len(),
		"skipped":    report.Skipped,
		"sampleBINs": strings.Join(idx.Sample(data.SampleSize), ","),
		"elapsed":    elapsed.String(),
	})
	if report.Skipped > 0 {
		entry.Warnf("bin data loaded with skipped rows, lines: %v", report.SkippedLines)
	} else {
		entry.Info("bin data loaded")
	}
	s.observer.ObserveLoad(StateReady.String(), idx.Len(), report.Skipped, elapsed)
	return result
}

func (s *Service) State() State {
	return s.gate.State()
}

// Normalize trims raw and returns its first six characters.
func Normalize(raw string) (string, error) {
	prefix, ok := prefixOf(strings.TrimSpace(raw), data.BinLength)
	if !ok {
		return "", ErrInvalidInput
	}
	return prefix, nil
}

// Lookup resolves raw to the first matching record. A valid prefix with no
// match is not an error: the result carries up to three similar records.
func (s *Service) Lookup(raw string) (mod.LookupResult, error) {
	prefix, err := Normalize(raw)
	if err != nil {
		s.observer.ObserveLookup("single", OutcomeInvalid)
		return mod.LookupResult{}, err
	}

	var idx *Index
	if idx, err = s.gate.Index(); err != nil {
		s.observer.ObserveLookup("single", gateOutcome(err))
		return mod.LookupResult{}, err
	}

	result := mod.LookupResult{Prefix: prefix}
	if record, ok := idx.Exact(prefix); ok {
		result.Record = record
		s.observer.ObserveLookup("single", OutcomeFound)
		return result, nil
	}
	result.Similar = idx.Similar(prefix, data.SimilarLimit)
	s.observer.ObserveLookup("single", OutcomeNotFound)
	return result, nil
}

// BulkLookup resolves each input independently. The output is parallel to raws.
func (s *Service) BulkLookup(raws []string) ([]mod.BulkItem, error) {
	idx, err := s.gate.Index()
	if err != nil {
		s.observer.ObserveLookup("bulk", gateOutcome(err))
		return nil, err
	}
	result := make([]mod.BulkItem, 0, len(raws))
	for _, raw := range raws {
		item := resolve(idx, raw)
		switch {
		case item.Found:
			s.observer.ObserveLookup("bulk", OutcomeFound)
		case item.Message != "":
			s.observer.ObserveLookup("bulk", OutcomeInvalid)
		default:
			s.observer.ObserveLookup("bulk", OutcomeNotFound)
		}
		result = append(result, item)
	}
	return result, nil
}

func resolve(idx *Index, raw string) mod.BulkItem {
	prefix, err := Normalize(raw)
	if err != nil {
		return mod.BulkItem{BIN: strings.TrimSpace(raw), Message: mod.MsgInvalidBulkBIN}
	}
	return idx.item(prefix)
}

// Probe looks up bins for diagnostics. It never fails, while the data is not
// loaded every bin is reported as not found.
func (s *Service) Probe(bins []string) []mod.BulkItem {
	idx, err := s.gate.Index()
	if err != nil {
		result := make([]mod.BulkItem, 0, len(bins))
		for _, bin := range bins {
			result = append(result, mod.BulkItem{BIN: bin})
		}
		return result
	}
	return idx.Probe(bins)
}

func (s *Service) Stats() (mod.Stats, error) {
	idx, err := s.gate.Index()
	if err != nil {
		return mod.Stats{}, err
	}
	stats := idx.Stats(data.TopCountryLimit)
	stats.DataLoaded = true
	return stats, nil
}

// TotalRecords is zero until the data is loaded.
func (s *Service) TotalRecords() int {
	if idx, err := s.gate.Index(); err == nil {
		return idx.Len()
	}
	return 0
}

func (s *Service) Health() mod.Health {
	health := mod.Health{
		Status:     mod.HealthStatusLoading,
		Uptime:     s.now().Sub(s.started).Seconds(),
		SampleBINs: []string{},
	}
	switch s.gate.State() {
	case StateReady:
		idx, _ := s.gate.Index()
		health.Status = mod.HealthStatusOK
		health.DataLoaded = true
		health.TotalRecords = idx.Len()
		health.SampleBINs = idx.Sample(data.SampleSize)
		health.SkippedRows = s.gate.Report().Skipped
	case StateFailed:
		health.Status = mod.HealthStatusDegraded
		health.SkippedRows = s.gate.Report().Skipped
		if err := s.gate.Err(); err != nil {
			health.Error = err.Error()
		}
	}
	return health
}

func gateOutcome(err error) string {
	if errors.Cause(err) == ErrUnavailable {
		return OutcomeFailed
	}
	return OutcomeNotReady
}
