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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sclevine/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fillcell/pkg/model"
)

func testHandlers(t *testing.T, describe spec.G, it spec.S) {
	var (
		subject       *CellServer
		controlSystem *model.FakeControlSystem
		router        http.Handler
		recorder      *httptest.ResponseRecorder
	)

	do := func(method, path, body string) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		router.ServeHTTP(recorder, req)
	}

	it.Before(func() {
		controlSystem = &model.FakeControlSystem{FullPlace: true}
		machines := []model.FillingMachine{
			&model.FakeFillingMachine{FakeID: 1, FakeState: model.StateFilling},
			&model.FakeFillingMachine{FakeID: 2, FakeState: model.StateReadyToFill},
		}

		subject = NewCellServer("127.0.0.1:0", controlSystem, machines, zap.NewNop().Sugar())
		router = subject.Router()
		recorder = httptest.NewRecorder()
	})

	describe("GET /machines", func() {
		it.Before(func() {
			do(http.MethodGet, "/machines", "")
		})

		it("has status 200 OK", func() {
			assert.Equal(t, http.StatusOK, recorder.Code)
		})

		it("sets the content-type to JSON", func() {
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		})

		it("lists every machine in order", func() {
			assert.JSONEq(t, `[
				{"id":1,"name":"fake-filling-machine","state":"Filling"},
				{"id":2,"name":"fake-filling-machine","state":"ReadyToFill"}
			]`, recorder.Body.String())
		})

		it("disables caching", func() {
			assert.Contains(t, recorder.Header().Get("Cache-Control"), "no-cache")
		})
	})

	describe("GET /sensors", func() {
		it("reports both sensors", func() {
			do(http.MethodGet, "/sensors", "")

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.JSONEq(t, `{"empty_place":false,"full_place":true}`, recorder.Body.String())
		})
	})

	describe("PUT /sensors/empty-place", func() {
		it("sets the sensor", func() {
			do(http.MethodPut, "/sensors/empty-place", `{"value":true}`)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, []string{"EmptyPlaceSensor=true"}, controlSystem.Calls())
		})

		it("rejects malformed JSON", func() {
			do(http.MethodPut, "/sensors/empty-place", `{"value":`)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Empty(t, controlSystem.Calls())
		})

		it("rejects a body without a value", func() {
			do(http.MethodPut, "/sensors/empty-place", `{}`)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Empty(t, controlSystem.Calls())
		})
	})

	describe("PUT /sensors/full-place", func() {
		it("sets the sensor", func() {
			do(http.MethodPut, "/sensors/full-place", `{"value":false}`)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, []string{"FullPlaceSensor=false"}, controlSystem.Calls())
		})
	})

	describe("unsupported requests", func() {
		it("rejects GET on a sensor", func() {
			do(http.MethodGet, "/sensors/full-place", "")
			assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
		})

		it("returns 404 for unknown paths", func() {
			do(http.MethodGet, "/run", "")
			assert.Equal(t, http.StatusNotFound, recorder.Code)
		})
	})

	describe("GET /metrics", func() {
		it("serves prometheus metrics", func() {
			do(http.MethodGet, "/metrics", "")

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "# TYPE")
		})
	})
}
