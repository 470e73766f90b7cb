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

// This binary provides a genome coordinate liftover server backed by a
// single chain format alignment file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/genomebridge/liftover/api"
	"github.com/genomebridge/liftover/internal/chain"
	"github.com/genomebridge/liftover/internal/source"
	"github.com/genomebridge/liftover/internal/usage"
)

var (
	port      = flag.Int("port", 80, "HTTP service port")
	chainPath = flag.String("chain", "", "chain file to serve (local path or gs:// URL)")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")

	// Enable or disable anonymous usage tracking.
	//
	// If enabled, anonymous information about requests handled by the
	// server is reported to the configured measurement property.  No
	// query coordinates or user identifying information is ever sent.
	trackUsage    = flag.Bool("track_usage", false, "anonymous usage tracking")
	usageProperty = flag.String("usage_property", "", "measurement property ID for -track_usage")
)

func main() {
	flag.Parse()

	if *chainPath == "" {
		log.Fatalf("You must specify an alignment file with -chain.")
	}
	if *secure && (*httpsCert == "" || *httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key in secure mode.")
	}
	if *trackUsage && *usageProperty == "" {
		log.Fatalf("You must specify -usage_property with -track_usage.")
	}

	r, err := source.Open(context.Background(), *chainPath)
	if err != nil {
		log.Fatalf("Failed to open chain file: %v", err)
	}
	index, err := chain.Read(r)
	if err != nil {
		log.Fatalf("Failed to build chain index: %v", err)
	}
	r.Close()
	log.Printf("Indexed %d sequences from %q", len(index.Sequences()), *chainPath)

	server := api.NewServer(index)
	server.Export(http.DefaultServeMux)

	handler := http.Handler(http.DefaultServeMux)
	if *trackUsage {
		log.Printf("Enabling anonymous usage tracking")

		reporter := usage.NewReporter(*usageProperty, uuid.New().String())
		handler = usage.Middleware(handler, func(events []usage.Event) {
			if err := reporter.Send(events); err != nil {
				log.Printf("Failed to send %d usage events: %v", len(events), err)
			}
		})
	}

	address := fmt.Sprintf(":%d", *port)
	if *secure {
		if err := http.ListenAndServeTLS(address, *httpsCert, *httpsKey, handler); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := http.ListenAndServe(address, handler); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}
