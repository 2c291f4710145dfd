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
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Format string

const (
	FormatConsole Format = "CONSOLE"
	FormatJSON    Format = "JSON"

	// TimeLayout matches the hour:minute:second.millisecond stamps of the
	// simulation's console output.
	TimeLayout = "15:04:05.000"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *zap.SugaredLogger
)

// Level maps a case-insensitive level name to a zapcore.Level, falling back
// to Info for anything unrecognised.
func Level(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}

	return l
}

func ParseFormat(format string) Format {
	switch Format(strings.ToUpper(strings.TrimSpace(format))) {
	case FormatJSON:
		return FormatJSON
	default:
		return FormatConsole
	}
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(TimeLayout))
}

func New(level string, format Format, w io.Writer) *zap.SugaredLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = timeEncoder
	encoderConfig.EncodeCaller = nil
	encoderConfig.CallerKey = ""

	var encoder zapcore.Encoder
	switch format {
	case FormatJSON:
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), Level(level))

	return zap.New(core).Named("fillcell").Sugar()
}

// FromEnv builds a logger from LOGGING_LEVEL and LOGGING_FORMAT, using the
// given values when those are unset.
func FromEnv(level string, format Format, w io.Writer) *zap.SugaredLogger {
	return New(getEnv("LOGGING_LEVEL", level), ParseFormat(getEnv("LOGGING_FORMAT", string(format))), w)
}

func Default() *zap.SugaredLogger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = FromEnv("INFO", FormatConsole, os.Stdout)
	}

	return defaultLogger
}

func SetDefault(logger *zap.SugaredLogger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger = logger
}

// For returns a child of the default logger named after a component.
func For(component string) *zap.SugaredLogger {
	return Default().Named(component)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
