package cmd

import (
	"bytes"
	"os"
	"time"

	"github.com/achilleasa/wavefront/soa"
	"github.com/urfave/cli"
)

// Generate SOA storage types from a schema.
func GenerateStorage(ctx *cli.Context) error {
	setupLogging(ctx)

	start := time.Now()
	doc, err := loadSchema(ctx)
	if err != nil {
		return err
	}

	layouts, err := soa.Generate(doc, soa.DefaultTypeMap())
	if err != nil {
		return err
	}

	opts := soa.EmitOptions{
		Package: ctx.String("package"),
		Source:  doc.Source,
		Headers: doc.Headers,
		Group:   ctx.Int("group"),
	}

	var buf bytes.Buffer
	if err = soa.EmitGo(&buf, layouts, opts); err != nil {
		return err
	}
	if err = writeOutput(ctx.String("out"), buf.Bytes()); err != nil {
		return err
	}

	if wgslFile := ctx.String("wgsl"); wgslFile != "" {
		buf.Reset()
		if err = soa.EmitWGSL(&buf, layouts, opts); err != nil {
			return err
		}
		if !ctx.Bool("skip-wgsl-check") {
			if _, err = soa.CompileWGSL(buf.String()); err != nil {
				return err
			}
		}
		if err = writeOutput(wgslFile, buf.Bytes()); err != nil {
			return err
		}
	}

	logger.Infof("generated storage for %d work items in %d ms", len(layouts), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Write data to a file or to stdout if path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	logger.Infof("writing %s", path)
	return os.WriteFile(path, data, 0644)
}
