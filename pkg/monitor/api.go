/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package monitor

import (
	"context"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

const (
	ApiPrefix    = "/api"
	DocsPath     = "docs"
	maxDecodeLen = 4096
)

//go:embed swagger.json
var swaggerJSON []byte

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	state *State
	docs  *loads.Document
}

func NewApiServer(ctx context.Context, cfg *config.Config, state *State) (*ApiServer, error) {
	docs, err := loads.Analyzed(swaggerJSON, "")
	if err != nil {
		return nil, err
	}
	log.Info("Initializing API server with address: %s api: %s %s",
		cfg.ApiAddress(), docs.Spec().Info.Title, docs.Spec().Info.Version)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		state:   state,
		docs:    docs,
	}
	s.configureRouter()
	return s, nil
}

// Handler wraps the router with access logging, panic recovery and API docs
func (s *ApiServer) Handler(accessLog io.Writer) http.Handler {
	var h http.Handler = s.Router
	h = middleware.Redoc(middleware.RedocOpts{
		Path:    DocsPath,
		SpecURL: "/swagger.json",
		Title:   s.docs.Spec().Info.Title,
	}, h)
	h = middleware.Spec("", s.docs.Raw(), h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(log.Std()))(h)
	return handlers.CombinedLoggingHandler(accessLog, h)
}

// Run serves the API until the context is done
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Config.ApiAddress())
	accessLog := log.Writer()
	defer accessLog.Close()

	httpServer := &http.Server{
		Handler: s.Handler(accessLog),
		Addr:    s.Config.ApiAddress(),
	}
	go func() {
		<-s.Context.Done()
		httpServer.Shutdown(context.Background())
	}()
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix(ApiPrefix).Subrouter()
	subRouter.HandleFunc("/domains", s.handleDomains()).Methods("GET")
	subRouter.HandleFunc("/domains/{domain}", s.handleDomain()).Methods("GET")
	subRouter.HandleFunc("/stats", s.handleStats()).Methods("GET")
	subRouter.HandleFunc("/decode", s.handleDecode()).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) handleDomains() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling domains request")
		domains, err := s.state.GetAllDomains()
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, domains)
	}
}

func (s *ApiServer) handleDomain() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domainID, err := uuid.Parse(mux.Vars(r)["domain"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		log.Debug("Handling domain request: domain: %s", domainID)
		view, err := s.state.GetDomain(domainID.String())
		if err != nil {
			var notFound ErrNotFound
			if errors.As(err, &notFound) {
				writeError(w, http.StatusNotFound, err)
				return
			}
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *ApiServer) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling stats request")
		stats, err := s.state.GetStats()
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *ApiServer) handleDecode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &DecodeRequest{}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2*maxDecodeLen+64)).Decode(req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		payload, err := hex.DecodeString(strings.TrimSpace(req.Payload))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		log.Debug("Handling decode request: %d bytes", len(payload))
		doc, err := mrp.Decode(payload)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		docBytes, err := json.Marshal(doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, DecodeResponse{Document: docBytes, Text: mrp.Render(doc)})
	}
}
