package chains

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T) *gin.Engine {
	registry, err := LoadDirectory("./testdata")
	assert.Equal(t, nil, err)

	r := gin.Default()
	r.GET("/chains", NewListHandler(registry))
	r.GET("/liftover/:chain", NewLiftoverHandler(registry))
	return r
}

func TestChainsRoute(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/chains", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var body struct {
		Chains []string `json:"chains"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"toy"}, body.Chains)
}

func TestLiftoverRoute(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/liftover/toy?sequence=chr1&position=61", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var body struct {
		Sequence string `json:"sequence"`
		Position int64  `json:"position"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, nil, err)
	assert.Equal(t, "chr2", body.Sequence)
	assert.Equal(t, int64(71), body.Position)
}

func TestLiftoverRoute_Unmapped(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/liftover/toy?sequence=chr1&position=55", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
}

func TestLiftoverRoute_UnknownChain(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/liftover/nope?sequence=chr1&position=61", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
}

func TestLiftoverRoute_BadParams(t *testing.T) {
	router := setupRouter(t)

	for _, url := range []string{
		"/liftover/toy?position=61",
		"/liftover/toy?sequence=chr1",
		"/liftover/toy?sequence=chr1&position=abc",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", url, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, 400, w.Code, url)
	}
}
