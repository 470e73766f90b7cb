package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/genomebridge/liftover/liftover-multichain-server/chains"
)

var (
	port      = flag.Int("port", 8080, "HTTP service port")
	directory = flag.String("directory", "", "directory that contains chain files")
)

func main() {
	flag.Parse()

	if *directory == "" {
		log.Fatalf("You must specify a chain directory with -directory.")
	}

	registry, err := chains.LoadDirectory(*directory)
	if err != nil {
		log.Fatalf("Failed to load chain files: %v", err)
	}
	log.Printf("Loaded %d chain files from %q", len(registry), *directory)

	router := gin.Default()
	router.GET("/chains", chains.NewListHandler(registry))
	router.GET("/liftover/:chain", chains.NewLiftoverHandler(registry))
	router.Run(fmt.Sprintf(":%d", *port))
}
