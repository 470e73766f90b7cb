package chains

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/genomebridge/liftover/internal/chain"
)

const chainExtension = ".chain"

// Registry maps a chain file's base name (without extension) to its
// parsed index.
type Registry map[string]*chain.Index

// LoadDirectory parses every *.chain file in directory.  A parse
// failure in any file fails the whole load.
func LoadDirectory(directory string) (Registry, error) {
	paths, err := filepath.Glob(filepath.Join(directory, "*"+chainExtension))
	if err != nil {
		return nil, fmt.Errorf("listing chain files: %v", err)
	}

	registry := make(Registry)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %v", path, err)
		}
		index, err := chain.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %v", path, err)
		}
		registry[strings.TrimSuffix(filepath.Base(path), chainExtension)] = index
	}
	return registry, nil
}

// Names returns the sorted names of the loaded chains.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewListHandler builds a gin handler that lists the loaded chains.
func NewListHandler(registry Registry) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"chains": registry.Names()})
	}
}

// NewLiftoverHandler builds a gin handler that answers liftover
// queries against one of the loaded chains.
func NewLiftoverHandler(registry Registry) func(c *gin.Context) {
	return func(c *gin.Context) {
		index, ok := registry[c.Param("chain")]
		if !ok {
			c.String(http.StatusNotFound, "Unknown chain")
			return
		}

		name := c.Query("sequence")
		if name == "" {
			c.String(http.StatusBadRequest, "Missing sequence name")
			return
		}
		position, err := strconv.ParseInt(c.Query("position"), 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "Error parsing position")
			return
		}

		target, ok := index.Liftover(name, position)
		if !ok {
			c.String(http.StatusNotFound, "No alignment covers the position")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sequence": target.Name,
			"position": target.Pos,
		})
	}
}
