package report

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StoreType  string   `json:"store_type"`
	Reports    []string `json:"reports"`
	Runs       int      `json:"runs"`
	Failures   int      `json:"failures"`
	LastReport string   `json:"last_report,omitempty"`
	Roots      Roots    `json:"roots"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storeType := "unknown"
	if comp, ok := s.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}
	reports := s.Names()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return ServiceState{
		StoreType:  storeType,
		Reports:    reports,
		Runs:       s.runs,
		Failures:   s.failures,
		LastReport: s.lastReport,
		Roots:      s.config.Roots,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "report-service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
