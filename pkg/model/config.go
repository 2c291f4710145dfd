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

package model

import (
	"fmt"
	"time"

	"fillcell/pkg/simulator"
)

const (
	DefaultPollInterval    = 50 * time.Millisecond
	DefaultMaxPollInterval = time.Second
)

type FillingMachineConfig struct {
	FillTime simulator.Interval
}

func (fmc FillingMachineConfig) Validate() error {
	if err := fmc.FillTime.Validate(); err != nil {
		return fmt.Errorf("invalid fill time: %w", err)
	}

	return nil
}

type WorkerConfig struct {
	Latency simulator.Interval
	// PollInterval is the first wait between two scans that found no
	// suitable machine. Waits grow up to MaxPollInterval.
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

func (wc WorkerConfig) Validate() error {
	if err := wc.Latency.Validate(); err != nil {
		return fmt.Errorf("invalid worker latency: %w", err)
	}
	if wc.PollInterval < 0 || wc.MaxPollInterval < 0 {
		return fmt.Errorf("poll intervals must not be negative")
	}
	if wc.PollInterval > 0 && wc.MaxPollInterval > 0 && wc.PollInterval > wc.MaxPollInterval {
		return fmt.Errorf("poll interval %s is greater than max poll interval %s", wc.PollInterval, wc.MaxPollInterval)
	}

	return nil
}

func (wc WorkerConfig) withDefaults() WorkerConfig {
	if wc.PollInterval == 0 {
		wc.PollInterval = DefaultPollInterval
	}
	if wc.MaxPollInterval == 0 {
		wc.MaxPollInterval = DefaultMaxPollInterval
	}
	if wc.MaxPollInterval < wc.PollInterval {
		wc.MaxPollInterval = wc.PollInterval
	}

	return wc
}
