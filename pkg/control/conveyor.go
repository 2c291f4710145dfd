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

package control

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"fillcell/pkg/model"
	"fillcell/pkg/simulator"
)

type ConveyorConfig struct {
	// FeedInterval is the time between two attempts to deliver an empty
	// container to the empty place.
	FeedInterval simulator.Interval
	// CollectInterval is the time between two attempts to take the full
	// container away from the full place.
	CollectInterval simulator.Interval
}

func (cc ConveyorConfig) Validate() error {
	if err := cc.FeedInterval.Validate(); err != nil {
		return fmt.Errorf("invalid feed interval: %w", err)
	}
	if err := cc.CollectInterval.Validate(); err != nil {
		return fmt.Errorf("invalid collect interval: %w", err)
	}

	return nil
}

// Conveyor drives the sensors from the outside of the cell: it puts empty
// containers on the empty place and takes full ones off the full place,
// using the control system's timers.
type Conveyor struct {
	controlSystem model.ControlSystem
	source        simulator.RandomSource
	config        ConveyorConfig
	logger        *zap.SugaredLogger

	mu           sync.Mutex
	running      bool
	feedTimer    model.TimerHandle
	collectTimer model.TimerHandle
	fed          int
	collected    int
}

func (c *Conveyor) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.running = true

	c.scheduleFeed()
	c.scheduleCollect()
}

func (c *Conveyor) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false

	c.controlSystem.KillTimer(c.feedTimer)
	c.controlSystem.KillTimer(c.collectTimer)
}

// Counts returns how many empty containers were delivered and how many full
// containers were taken away.
func (c *Conveyor) Counts() (fed, collected int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fed, c.collected
}

func (c *Conveyor) feed() {
	if !c.controlSystem.GetEmptyPlaceSensor() {
		c.mu.Lock()
		c.fed++
		c.mu.Unlock()

		c.logger.Info("Conveyor delivered an empty container.")
		c.controlSystem.SetEmptyPlaceSensor(true)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.scheduleFeed()
	}
}

func (c *Conveyor) collect() {
	if c.controlSystem.GetFullPlaceSensor() {
		c.mu.Lock()
		c.collected++
		c.mu.Unlock()

		c.logger.Info("Conveyor collected a full container.")
		c.controlSystem.SetFullPlaceSensor(false)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.scheduleCollect()
	}
}

// callers hold c.mu
func (c *Conveyor) scheduleFeed() {
	c.feedTimer = c.controlSystem.StartTimer(c.config.FeedInterval.Draw(c.source), c.feed)
}

// callers hold c.mu
func (c *Conveyor) scheduleCollect() {
	c.collectTimer = c.controlSystem.StartTimer(c.config.CollectInterval.Draw(c.source), c.collect)
}

func NewConveyor(controlSystem model.ControlSystem, source simulator.RandomSource, config ConveyorConfig, logger *zap.SugaredLogger) *Conveyor {
	return &Conveyor{
		controlSystem: controlSystem,
		source:        source,
		config:        config,
		logger:        logger,
	}
}
