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

// Package source resolves chain input locations to readable streams.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gcsPrefix = "gs://"

// TokenEnv names the environment variable holding an OAuth2 bearer
// token for Cloud Storage reads.  When it is unset, objects are read
// with an unauthenticated client and must be publicly readable.
const TokenEnv = "LIFTOVER_GCS_TOKEN"

var (
	defaultStorageClient           *storage.Client
	defaultStorageClientErr        error
	initializeDefaultStorageClient sync.Once
)

// Open opens the chain data named by path.  Paths of the form
// gs://bucket/object are read from Google Cloud Storage; anything else
// is treated as a local file.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, gcsPrefix) {
		return openObject(ctx, strings.TrimPrefix(path, gcsPrefix))
	}
	return os.Open(path)
}

func openObject(ctx context.Context, path string) (io.ReadCloser, error) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid object path %q", path)
	}
	bucket, object := parts[0], parts[1]

	gcs, err := storageClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %v", err)
	}

	r, err := gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, newStorageError(object, err)
	}
	return r, nil
}

// storageClient returns the shared storage client, creating it on the
// first call.  A bearer token from the environment takes precedence
// over the unauthenticated public client.
func storageClient(ctx context.Context) (*storage.Client, error) {
	initializeDefaultStorageClient.Do(func() {
		opts := []option.ClientOption{option.WithHTTPClient(http.DefaultClient)}
		if token := os.Getenv(TokenEnv); token != "" {
			opts = []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
				TokenType:   "Bearer",
				AccessToken: token,
			}))}
		}
		defaultStorageClient, defaultStorageClientErr = storage.NewClient(ctx, opts...)
	})
	return defaultStorageClient, defaultStorageClientErr
}

func newStorageError(object string, err error) error {
	if err == storage.ErrObjectNotExist {
		return fmt.Errorf("object %q does not exist", object)
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("access to object %q denied: %v", object, err)
		}
	}
	return err
}
