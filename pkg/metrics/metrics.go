/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fillcell"

var (
	machineTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "transitions_total",
			Help:      "Filling machine state transitions.",
		},
		[]string{"machine", "from", "to"},
	)

	machineState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "state",
			Help:      "1 for the state a filling machine is currently in, 0 otherwise.",
		},
		[]string{"machine", "state"},
	)

	fillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "fill_duration_seconds",
			Help:      "Drawn duration of each fill cycle.",
			Buckets:   prometheus.LinearBuckets(0.5, 0.5, 12),
		},
	)

	workerActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "actions_total",
			Help:      "Loads and unloads performed by the worker.",
		},
		[]string{"action"},
	)

	workerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "latency_seconds",
			Help:      "Simulated latency of worker actions.",
			Buckets:   prometheus.LinearBuckets(0.25, 0.25, 12),
		},
	)

	workerScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "scans_total",
			Help:      "Scans of the machine collection, by the state searched for.",
		},
		[]string{"state"},
	)

	workerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "errors_total",
			Help:      "Errors returned by sensor handlers.",
		},
		[]string{"handler"},
	)

	sensorChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sensor",
			Name:      "changes_total",
			Help:      "Sensor value changes.",
		},
		[]string{"sensor", "value"},
	)
)

// InitMachineState publishes the state a machine was constructed in.
func InitMachineState(machine, state string, states []string) {
	for _, s := range states {
		machineState.WithLabelValues(machine, s).Set(0)
	}
	machineState.WithLabelValues(machine, state).Set(1)
}

func ObserveMachineTransition(machine, from, to string) {
	machineTransitions.WithLabelValues(machine, from, to).Inc()
	machineState.WithLabelValues(machine, from).Set(0)
	machineState.WithLabelValues(machine, to).Set(1)
}

func ObserveFillDuration(d time.Duration) {
	fillDuration.Observe(d.Seconds())
}

func ObserveWorkerAction(action string) {
	workerActions.WithLabelValues(action).Inc()
}

func ObserveWorkerLatency(d time.Duration) {
	workerLatency.Observe(d.Seconds())
}

func ObserveWorkerScan(state string) {
	workerScans.WithLabelValues(state).Inc()
}

func ObserveWorkerError(handler string) {
	workerErrors.WithLabelValues(handler).Inc()
}

func ObserveSensorChange(sensor string, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	sensorChanges.WithLabelValues(sensor, v).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
