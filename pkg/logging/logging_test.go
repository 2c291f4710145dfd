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

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"regexp"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogging(t *testing.T) {
	spec.Run(t, "logging", testLogging, spec.Report(report.Terminal{}), spec.Sequential())
}

func testLogging(t *testing.T, describe spec.G, it spec.S) {
	var buf *bytes.Buffer

	it.Before(func() {
		buf = new(bytes.Buffer)
	})

	describe("Level()", func() {
		it("parses names case-insensitively", func() {
			assert.Equal(t, zapcore.DebugLevel, Level("DEBUG"))
			assert.Equal(t, zapcore.WarnLevel, Level("warn"))
		})

		it("falls back to info", func() {
			assert.Equal(t, zapcore.InfoLevel, Level("chatty"))
			assert.Equal(t, zapcore.InfoLevel, Level(""))
		})
	})

	describe("ParseFormat()", func() {
		it("recognises JSON", func() {
			assert.Equal(t, FormatJSON, ParseFormat("json"))
		})

		it("defaults to console", func() {
			assert.Equal(t, FormatConsole, ParseFormat("pretty"))
		})
	})

	describe("New()", func() {
		it("prefixes console lines with a millisecond timestamp", func() {
			logger := New("info", FormatConsole, buf)
			logger.Info("Simulation objects creation complete!")

			assert.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}\s`), buf.String())
			assert.Contains(t, buf.String(), "Simulation objects creation complete!")
		})

		it("writes JSON objects in JSON format", func() {
			logger := New("info", FormatJSON, buf)
			logger.Infow("changed state", "machine", 1)

			var line map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "changed state", line["M"])
			assert.Equal(t, float64(1), line["machine"])
		})

		it("drops entries below the configured level", func() {
			logger := New("warn", FormatConsole, buf)
			logger.Info("quiet")
			assert.Empty(t, buf.String())
		})
	})

	describe("FromEnv()", func() {
		it.After(func() {
			os.Unsetenv("LOGGING_LEVEL")
		})

		it("prefers LOGGING_LEVEL over the given level", func() {
			os.Setenv("LOGGING_LEVEL", "ERROR")
			logger := FromEnv("info", FormatConsole, buf)
			assert.False(t, logger.Desugar().Core().Enabled(zapcore.WarnLevel))
		})
	})

	describe("Default()", func() {
		it.After(func() {
			SetDefault(nil)
		})

		it("lazily builds a logger", func() {
			assert.NotNil(t, Default())
		})

		it("can be replaced", func() {
			replacement := New("info", FormatConsole, buf)
			SetDefault(replacement)
			For("worker").Info("hello")
			assert.Contains(t, buf.String(), "fillcell.worker")
		})
	})
}
