package cmd

import (
	"os"

	"github.com/achilleasa/wavefront/log"
	"github.com/urfave/cli"
)

var logger = log.New("wavefront")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// Log err and exit with a non-zero status.
func Fatal(err error) {
	logger.Error(err.Error())
	os.Exit(1)
}
