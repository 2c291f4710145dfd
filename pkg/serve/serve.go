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
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"fillcell/pkg/metrics"
	"fillcell/pkg/model"
)

// CellServer exposes the cell's machines and sensors over HTTP.
type CellServer struct {
	Addr string

	controlSystem model.ControlSystem
	machines      []model.FillingMachine
	logger        *zap.SugaredLogger

	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
}

func (cs *CellServer) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.NoCache)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(cs.logger.Desugar()),
		NoColor: true,
	}))
	router.Use(middleware.DefaultCompress)

	router.Mount("/debug", middleware.Profiler())
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/machines", cs.machinesHandler)
	router.Route("/sensors", func(r chi.Router) {
		r.Get("/", cs.sensorsHandler)
		r.Put("/empty-place", cs.sensorHandler(cs.controlSystem.SetEmptyPlaceSensor))
		r.Put("/full-place", cs.sensorHandler(cs.controlSystem.SetFullPlaceSensor))
	})

	return router
}

// Listen binds the server's address. Serve calls it when needed.
func (cs *CellServer) Listen() (net.Addr, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.listener != nil {
		return cs.listener.Addr(), nil
	}

	listener, err := net.Listen("tcp", cs.Addr)
	if err != nil {
		return nil, err
	}
	cs.listener = listener
	cs.srv = &http.Server{Handler: cs.Router()}

	return listener.Addr(), nil
}

// Serve blocks until the server is shut down. A clean shutdown returns nil.
func (cs *CellServer) Serve() error {
	addr, err := cs.Listen()
	if err != nil {
		return err
	}

	cs.mu.Lock()
	srv, listener := cs.srv, cs.listener
	cs.mu.Unlock()

	cs.logger.Infof("Listening on http://%s ...", addr)
	err = srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (cs *CellServer) Shutdown(ctx context.Context) error {
	cs.mu.Lock()
	srv := cs.srv
	cs.mu.Unlock()

	if srv == nil {
		return nil
	}

	cs.logger.Info("Shutting down ...")
	return srv.Shutdown(ctx)
}

func NewCellServer(addr string, controlSystem model.ControlSystem, machines []model.FillingMachine, logger *zap.SugaredLogger) *CellServer {
	ms := make([]model.FillingMachine, len(machines))
	copy(ms, machines)

	return &CellServer{
		Addr:          addr,
		controlSystem: controlSystem,
		machines:      ms,
		logger:        logger,
	}
}
