// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromMetrics is the default MetricsSink: a single counter vector labeled
// by rule/action id and counter name, registered once at construction.
type PromMetrics struct {
	counter *prometheus.CounterVec
}

// NewPromMetrics registers the counter vector against reg and returns the
// sink. reg is typically prometheus.DefaultRegisterer in a standalone
// process, or a sub-registry under test.
func NewPromMetrics(reg prometheus.Registerer) (*PromMetrics, error) {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ruleforge",
		Name:      "events_total",
		Help:      "Count of rule engine events, labeled by the id they are about and the counter they belong to.",
	}, []string{"id", "counter"})

	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if ok {
				return &PromMetrics{counter: existing}, nil
			}
		}
		return nil, err
	}

	return &PromMetrics{counter: c}, nil
}

// Inc implements runtime.MetricsSink.
func (m *PromMetrics) Inc(id, counter string) {
	m.counter.WithLabelValues(id, counter).Inc()
}
