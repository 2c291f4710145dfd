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

type MachineState string

const (
	// No container is in the machine, it can be loaded.
	StateReadyToFill MachineState = "ReadyToFill"
	// The machine is filling and cannot be used.
	StateFilling MachineState = "Filling"
	// The container is full and has to be taken out.
	StateFillingComplete MachineState = "FillingComplete"

	EventLoad     = "load"
	EventComplete = "complete"
	EventUnload   = "unload"
)

var MachineStates = []MachineState{StateReadyToFill, StateFilling, StateFillingComplete}

func (ms MachineState) Valid() bool {
	for _, s := range MachineStates {
		if s == ms {
			return true
		}
	}

	return false
}

func machineStateNames() []string {
	names := make([]string, len(MachineStates))
	for i, s := range MachineStates {
		names[i] = string(s)
	}

	return names
}
