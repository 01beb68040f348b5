package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/artiomtarasiuk/log-analyzer/cmd/app"
)

func main() {
	cmd := app.NewAnalyzerCommand()
	if err := cmd.Execute(); err != nil {
		log.WithFields(log.Fields{
			"err": err,
		}).Error("log analysis failed")
		os.Exit(1)
	}
}
