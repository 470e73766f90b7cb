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

// Package usage provides anonymous usage reporting for the liftover
// servers.  Events are collected per request and delivered in batches
// to a measurement endpoint.
package usage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultEndpoint  = "https://www.google-analytics.com"
	defaultBatchSize = 20 // The maximum the batch endpoint accepts.
)

// Event is a single usage event.  Category and Action are required;
// Label may be empty and Value may be nil.
type Event struct {
	Category string
	Action   string
	Label    string
	Value    *int64
}

func (e Event) payload(propertyID, clientID string) url.Values {
	values := url.Values{
		"v":   []string{"1"},
		"t":   []string{"event"},
		"tid": []string{propertyID},
		"cid": []string{clientID},
		"ec":  []string{e.Category},
		"ea":  []string{e.Action},
	}
	if e.Label != "" {
		values.Set("el", e.Label)
	}
	if e.Value != nil {
		values.Set("ev", strconv.FormatInt(*e.Value, 10))
	}
	return values
}

// Reporter delivers usage events to a measurement endpoint.  To create
// a properly initialized Reporter, use NewReporter.
type Reporter struct {
	propertyID string
	clientID   string
	endpoint   string
	batchSize  int
}

// NewReporter returns a Reporter that attributes events to the given
// property and (anonymous) client IDs.
func NewReporter(propertyID, clientID string) *Reporter {
	return &Reporter{propertyID, clientID, defaultEndpoint, defaultBatchSize}
}

// Send attempts to upload the provided events in batches.
func (r *Reporter) Send(events []Event) error {
	for start := 0; start < len(events); start += r.batchSize {
		end := start + r.batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := r.upload(events[start:end]); err != nil {
			return fmt.Errorf("uploading events: %v", err)
		}
	}
	return nil
}

func (r *Reporter) upload(events []Event) error {
	var body bytes.Buffer
	for _, event := range events {
		body.WriteString(event.payload(r.propertyID, r.clientID).Encode())
		body.WriteByte('\n')
	}

	request, err := http.NewRequest("POST", r.endpoint+"/batch", &body)
	if err != nil {
		return fmt.Errorf("creating request: %v", err)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("sending request: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %v", response.Status)
	}
	return nil
}

type contextKey int

var eventsKey = contextKey(1)

// Middleware returns an http.Handler that wraps handler and prepares
// each request's context for use with CollectorFromContext.  When the
// wrapped handler completes, flush is invoked with the events the
// request accumulated.
func Middleware(handler http.Handler, flush func([]Event)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var events []Event
		ctx := context.WithValue(req.Context(), eventsKey, &events)
		handler.ServeHTTP(w, req.WithContext(ctx))
		flush(events)
	})
}

// CollectorFromContext returns a function that buffers events for the
// flush function configured by Middleware.  For contexts without a
// collector it returns a no-op function, never nil.
func CollectorFromContext(ctx context.Context) func(Event) {
	if events, ok := ctx.Value(eventsKey).(*[]Event); ok {
		return func(event Event) { *events = append(*events, event) }
	}
	return func(Event) {}
}
