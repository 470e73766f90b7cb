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

// This binary provides a client for the liftover server.  Each
// argument is a sequence:position coordinate to translate.
package main

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

var (
	server = flag.String("server", "http://localhost", "liftover server URL")
	output = flag.String("o", "", "output filename")
)

func main() {
	flag.Parse()

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to open output file: %v", err)
		}
		defer f.Close()

		w = f
	}

	client := http.DefaultClient

	// For compatibility with other tools, read the standard cURL
	// certificate authority override from the environment.
	if bundle := os.Getenv("CURL_CA_BUNDLE"); bundle != "" {
		pem, err := ioutil.ReadFile(bundle)
		if err != nil {
			log.Fatalf("Failed to read CA override file %q: %v", bundle, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			log.Fatalf("Failed to initialize system certificate pool: %v", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			log.Fatalf("Failed to add certificates from bundle %q", bundle)
		}
		client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					RootCAs: pool,
				}},
		}
		log.Printf("Using CA override bundle from %q", bundle)
	}

	for _, arg := range flag.Args() {
		name, position, err := parseCoordinate(arg)
		if err != nil {
			log.Fatalf("Bad coordinate %q: %v", arg, err)
		}

		target, ok, err := liftover(client, name, position)
		if err != nil {
			log.Fatalf("Query for %q failed: %v", arg, err)
		}
		if !ok {
			fmt.Fprintf(w, "%s\tunmapped\n", arg)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", arg, target)
	}
}

// parseCoordinate splits a sequence:position argument at its last
// colon, so sequence names may themselves contain colons.
func parseCoordinate(arg string) (string, int64, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", 0, fmt.Errorf("want the form sequence:position")
	}
	position, err := strconv.ParseInt(arg[i+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parsing position: %v", err)
	}
	return arg[:i], position, nil
}

// liftover queries the server for a single coordinate.  A 404 response
// means the position has no mapping and is not an error.
func liftover(client *http.Client, name string, position int64) (string, bool, error) {
	values := url.Values{}
	values.Set("sequence", name)
	values.Set("position", strconv.FormatInt(position, 10))

	resp, err := client.Get(*server + "/liftover/?" + values.Encode())
	if err != nil {
		return "", false, fmt.Errorf("fetching mapping: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, errorFromResponse(resp)
	}

	var body struct {
		Liftover struct {
			Sequence string `json:"sequence"`
			Position int64  `json:"position"`
		} `json:"liftover"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false, fmt.Errorf("decoding response: %v", err)
	}
	return fmt.Sprintf("%s:%d", body.Liftover.Sequence, body.Liftover.Position), true, nil
}

func errorFromResponse(resp *http.Response) error {
	v := make(map[string]string)
	if err := json.NewDecoder(resp.Body).Decode(&v); err == nil {
		if message, ok := v["message"]; ok {
			return fmt.Errorf("%s: %s", resp.Status, message)
		}
	}
	return fmt.Errorf("unexpected response status: %q", resp.Status)
}
