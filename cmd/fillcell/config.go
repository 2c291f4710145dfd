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

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var configFile = flag.String("config", "", "YAML file with settings, flags given on the command line take precedence")

type durationRange struct {
	Min *time.Duration `yaml:"min"`
	Max *time.Duration `yaml:"max"`
}

type fileConfig struct {
	FillTime         *durationRange `yaml:"fillTime"`
	WorkerLatency    *durationRange `yaml:"workerLatency"`
	PollInterval     *time.Duration `yaml:"pollInterval"`
	MaxPollInterval  *time.Duration `yaml:"maxPollInterval"`
	NumberOfMachines *int           `yaml:"numberOfMachines"`
	Conveyor         *bool          `yaml:"conveyor"`
	FeedInterval     *durationRange `yaml:"feedInterval"`
	CollectInterval  *durationRange `yaml:"collectInterval"`
	Seed             *int64         `yaml:"seed"`
	Listen           *string        `yaml:"listen"`
	ShowTrace        *bool          `yaml:"showTrace"`
	LogLevel         *string        `yaml:"logLevel"`
	LogFormat        *string        `yaml:"logFormat"`
}

func parseConfig(r io.Reader) (*fileConfig, error) {
	cfg := new(fileConfig)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	return parseConfig(bytes.NewReader(data))
}

// explicitFlags names the flags given on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	return set
}

// apply copies every value present in the file onto its flag, unless that
// flag was given explicitly.
func (cfg *fileConfig) apply(explicit map[string]bool) {
	applyRange(cfg.FillTime, explicit, "fillTime", fillTimeMin, fillTimeMax)
	applyRange(cfg.WorkerLatency, explicit, "workerLatency", workerLatencyMin, workerLatencyMax)
	applyRange(cfg.FeedInterval, explicit, "feedInterval", feedIntervalMin, feedIntervalMax)
	applyRange(cfg.CollectInterval, explicit, "collectInterval", collectIntervalMin, collectIntervalMax)

	applyValue(cfg.PollInterval, explicit["pollInterval"], pollInterval)
	applyValue(cfg.MaxPollInterval, explicit["maxPollInterval"], maxPollInterval)
	applyValue(cfg.NumberOfMachines, explicit["numberOfMachines"], numberOfMachines)
	applyValue(cfg.Conveyor, explicit["conveyor"], conveyor)
	applyValue(cfg.Seed, explicit["seed"], seed)
	applyValue(cfg.Listen, explicit["listen"], listen)
	applyValue(cfg.ShowTrace, explicit["showTrace"], showTrace)
	applyValue(cfg.LogLevel, explicit["logLevel"], logLevel)
	applyValue(cfg.LogFormat, explicit["logFormat"], logFormat)
}

func applyRange(r *durationRange, explicit map[string]bool, name string, lower, upper *time.Duration) {
	if r == nil {
		return
	}
	applyValue(r.Min, explicit[name+"Min"], lower)
	applyValue(r.Max, explicit[name+"Max"], upper)
}

func applyValue[T any](from *T, explicit bool, to *T) {
	if from == nil || explicit {
		return
	}
	*to = *from
}
