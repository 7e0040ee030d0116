/*
 * metrics.go, part of goqmmm
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package metrics exports prometheus metrics about the evaluation of a QM/MM model:
//how often each node of its graph is recomputed and invalidated, how long the
//recomputations take, and the energy of the last step.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	qmmm "github.com/rmera/goqmmm"
)

//Registry holds the metrics of one or more models. It implements dep.Observer,
//so it can be given to qmmm.Options.Observer.
type Registry struct {
	registry *prometheus.Registry

	Recomputations    *prometheus.CounterVec
	RecomputeDuration *prometheus.HistogramVec
	Invalidations     *prometheus.CounterVec
	Steps             prometheus.Counter
	Energy            prometheus.Gauge
	EmbeddingCharges  prometheus.Gauge
}

//NewRegistry returns a Registry with its own prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)
	r.Recomputations = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goqmmm_node_recomputations_total",
			Help: "Number of times each node of the graph was recomputed",
		},
		[]string{"node"},
	)
	r.RecomputeDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goqmmm_node_recompute_seconds",
			Help:    "Time spent recomputing each node, without its dependencies",
			Buckets: []float64{1e-6, 1e-5, 1e-4, 1e-3, 0.01, 0.1, 1, 10, 100},
		},
		[]string{"node"},
	)
	r.Invalidations = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goqmmm_node_invalidations_total",
			Help: "Number of times each node of the graph was invalidated",
		},
		[]string{"node"},
	)
	r.Steps = f.NewCounter(prometheus.CounterOpts{
		Name: "goqmmm_steps_total",
		Help: "Number of QM/MM steps computed",
	})
	r.Energy = f.NewGauge(prometheus.GaugeOpts{
		Name: "goqmmm_energy_kcal_per_mol",
		Help: "QM/MM energy of the last step",
	})
	r.EmbeddingCharges = f.NewGauge(prometheus.GaugeOpts{
		Name: "goqmmm_embedding_charges",
		Help: "Number of embedding charges in the last step",
	})
	return r
}

//Recomputed records a node recomputation.
func (r *Registry) Recomputed(name string, took time.Duration) {
	r.Recomputations.WithLabelValues(name).Inc()
	r.RecomputeDuration.WithLabelValues(name).Observe(took.Seconds())
}

//Invalidated records a node invalidation.
func (r *Registry) Invalidated(name string) {
	r.Invalidations.WithLabelValues(name).Inc()
}

//RecordStep records the result of a QM/MM step.
func (r *Registry) RecordStep(res *qmmm.Result) {
	r.Steps.Inc()
	r.Energy.Set(res.Energy)
	r.EmbeddingCharges.Set(float64(len(res.EmbeddingCharges)))
}

//Gatherer returns the prometheus registry with all the metrics.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

//WriteFile writes the current value of the metrics to filename, in the prometheus
//text format.
func (r *Registry) WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}
