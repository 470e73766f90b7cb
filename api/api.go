// Copyright 2019 the Liftover Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api implements the liftover query API over a chain index.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/genomebridge/liftover/internal/chain"
	"github.com/genomebridge/liftover/internal/usage"
)

const (
	liftoverPath  = "/liftover/"
	sequencesPath = "/sequences/"
)

var (
	errMissingSequenceName = errors.New("no sequence name specified")
	errMissingPosition     = errors.New("no position specified")
)

// Server provides a liftover protocol server over a single immutable
// chain index.  Must be created with NewServer.
type Server struct {
	index *chain.Index
}

// NewServer returns a new Server that answers queries from index.  The
// index must not be mutated afterwards; queries may run concurrently.
func NewServer(index *chain.Index) *Server {
	return &Server{index}
}

// Export registers the liftover API endpoints with mux.
func (server *Server) Export(mux *http.ServeMux) {
	mux.Handle(liftoverPath, forwardOrigin(server.serveLiftover))
	mux.Handle(sequencesPath, forwardOrigin(server.serveSequences))
}

func (server *Server) serveLiftover(w http.ResponseWriter, req *http.Request) {
	collect := usage.CollectorFromContext(req.Context())
	collect(usage.Event{Category: "Liftover", Action: "Request Received"})

	query := req.URL.Query()
	name := query.Get("sequence")
	if name == "" {
		writeError(w, newInvalidInputError("parsing query", errMissingSequenceName))
		return
	}
	rawPosition := query.Get("position")
	if rawPosition == "" {
		writeError(w, newInvalidInputError("parsing query", errMissingPosition))
		return
	}
	position, err := strconv.ParseInt(rawPosition, 10, 64)
	if err != nil {
		writeError(w, newInvalidInputError("parsing position", err))
		return
	}

	target, ok := server.index.Liftover(name, position)
	if !ok {
		collect(usage.Event{Category: "Liftover", Action: "Unmapped Position"})
		writeError(w, newNotFoundError("searching alignments",
			fmt.Errorf("no alignment covers %s:%d", name, position)))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"liftover": map[string]interface{}{
			"sequence": target.Name,
			"position": target.Pos,
		}})
	collect(usage.Event{Category: "Liftover", Action: "Response Sent"})
}

func (server *Server) serveSequences(w http.ResponseWriter, req *http.Request) {
	sequences := server.index.Sequences()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sequences": sequences,
	})

	count := int64(len(sequences))
	collect := usage.CollectorFromContext(req.Context())
	collect(usage.Event{Category: "Sequences", Action: "Response Sent", Value: &count})
}

// apiError is used to capture errors that map to a fixed HTTP status.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newApiError(name string, code int, context string, err error) error {
	return &apiError{name, code, fmt.Errorf("%s: %v", context, err)}
}

func newInvalidInputError(context string, err error) error {
	return newApiError("InvalidInput", http.StatusBadRequest, context, err)
}

func newNotFoundError(context string, err error) error {
	return newApiError("NotFound", http.StatusNotFound, context, err)
}

// writeError writes either a JSON object or a bare HTTP error
// describing err to w.  A JSON object is written only when the error
// carries a name and code defined by this API.
func writeError(w http.ResponseWriter, err error) {
	if err, ok := err.(*apiError); ok {
		writeJSON(w, err.code, map[string]interface{}{
			"error":   err.name,
			"message": fmt.Sprintf("%s: %v", http.StatusText(err.code), err.cause),
		})
		return
	}

	http.Error(w, fmt.Sprintf("%s: %v", http.StatusText(http.StatusInternalServerError), err), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Add("Content-type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

type forwardOrigin func(w http.ResponseWriter, req *http.Request)

func (f forwardOrigin) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if origin := req.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	f(w, req)
}
