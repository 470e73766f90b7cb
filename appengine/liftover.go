package liftover

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"google.golang.org/appengine"

	"github.com/genomebridge/liftover/api"
	"github.com/genomebridge/liftover/internal/chain"
	"github.com/genomebridge/liftover/internal/source"
)

var (
	buildIndex sync.Once
	buildErr   error
	mux        *http.ServeMux
)

func init() {
	http.HandleFunc("/", serve)
}

// serve builds the index on the first request.  App Engine requires a
// request-scoped context for the outbound storage read, so the build
// cannot happen in init.
func serve(w http.ResponseWriter, req *http.Request) {
	buildIndex.Do(func() {
		path := os.Getenv("LIFTOVER_CHAIN")
		if path == "" {
			buildErr = errors.New("LIFTOVER_CHAIN is not set")
			return
		}
		r, err := source.Open(appengine.NewContext(req), path)
		if err != nil {
			buildErr = fmt.Errorf("opening chain file: %v", err)
			return
		}
		defer r.Close()

		index, err := chain.Read(r)
		if err != nil {
			buildErr = fmt.Errorf("building chain index: %v", err)
			return
		}
		mux = http.NewServeMux()
		api.NewServer(index).Export(mux)
	})
	if buildErr != nil {
		http.Error(w, buildErr.Error(), http.StatusInternalServerError)
		return
	}
	mux.ServeHTTP(w, req)
}
