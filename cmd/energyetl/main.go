// Command energyetl runs the energy-market and weather batch pipelines:
//
//	energyetl offers     parse the OFEI offers file and load it into ofertas
//	energyetl schedule   filter the master data and join it with the dDEC schedule
//	energyetl weather    generate observations, derive Fahrenheit and deltas
//	energyetl all        run the three pipelines in order
//	energyetl validate   check the configuration and exit
//
// Configuration resolves defaults < YAML (--config) < environment and .env
// (--env-file) < explicit flags; see internal/config.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// register all backends with the storage factory.
	_ "github.com/iNicoNavarro/data-problems/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Printf("energyetl: %v", err)
		stop()
		os.Exit(1)
	}
}
