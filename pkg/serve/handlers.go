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

package serve

import (
	"encoding/json"
	"net/http"
)

type machineLine struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type sensorsLine struct {
	EmptyPlace bool `json:"empty_place"`
	FullPlace  bool `json:"full_place"`
}

type sensorValue struct {
	Value *bool `json:"value"`
}

func (cs *CellServer) machinesHandler(w http.ResponseWriter, r *http.Request) {
	lines := make([]machineLine, 0, len(cs.machines))
	for _, m := range cs.machines {
		lines = append(lines, machineLine{
			ID:    m.ID(),
			Name:  string(m.Name()),
			State: string(m.State()),
		})
	}

	cs.writeJSON(w, lines)
}

func (cs *CellServer) sensorsHandler(w http.ResponseWriter, r *http.Request) {
	cs.writeJSON(w, sensorsLine{
		EmptyPlace: cs.controlSystem.GetEmptyPlaceSensor(),
		FullPlace:  cs.controlSystem.GetFullPlaceSensor(),
	})
}

func (cs *CellServer) sensorHandler(set func(bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body sensorValue
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil || body.Value == nil {
			http.Error(w, `expected a body like {"value":true}`, http.StatusBadRequest)
			return
		}

		set(*body.Value)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (cs *CellServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		cs.logger.Errorf("could not encode response: %s", err.Error())
	}
}
