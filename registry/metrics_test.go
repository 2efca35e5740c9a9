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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func (s *MetricsTestSuite) TestIncIncrementsLabeledCounter() {
	reg := prometheus.NewRegistry()
	m, err := NewPromMetrics(reg)
	s.Require().NoError(err)

	m.Inc("rule-1", "rules.matched")
	m.Inc("rule-1", "rules.matched")
	m.Inc("rule-1", "actions.success")

	families, err := reg.Gather()
	s.Require().NoError(err)

	counts := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			counts[labels["counter"]] = metric.GetCounter().GetValue()
		}
	}

	s.Equal(2.0, counts["rules.matched"])
	s.Equal(1.0, counts["actions.success"])
}

func (s *MetricsTestSuite) TestDoubleRegistrationReusesExistingCollector() {
	reg := prometheus.NewRegistry()
	first, err := NewPromMetrics(reg)
	s.Require().NoError(err)
	second, err := NewPromMetrics(reg)
	s.Require().NoError(err)

	first.Inc("r1", "c1")
	second.Inc("r1", "c1")

	families, err := reg.Gather()
	s.Require().NoError(err)
	s.NotEmpty(families)
}

func TestMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}
