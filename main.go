package main

import (
	"os"

	"github.com/achilleasa/wavefront/cmd"
	"github.com/achilleasa/wavefront/schema"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	schemaFlag := cli.StringFlag{
		Name:  "schema, s",
		Usage: "schema file, http(s) URL or " + schema.DefaultPath + " for the bundled schema",
	}

	app := cli.NewApp()
	app.Name = "wavefront"
	app.Usage = "generate wavefront work item storage and render scenes with it"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "generate",
			Usage: "generate structure-of-arrays storage types from a work item schema",
			Description: `
Parse a work item schema, compute the column layout of every active work item
declaration and emit Go storage, view and queue types for it.

Optionally emit a WGSL rendition of the same layout. The WGSL output is
validated by compiling it to SPIR-V before it is written.`,
			ArgsUsage: "[schema_file]",
			Flags: []cli.Flag{
				schemaFlag,
				cli.StringFlag{
					Name:  "out, o",
					Value: "-",
					Usage: "output file for the generated Go code; - writes to stdout",
				},
				cli.StringFlag{
					Name:  "package, p",
					Value: "workitem",
					Usage: "package name for the generated Go code",
				},
				cli.StringFlag{
					Name:  "wgsl",
					Usage: "if set, also write the WGSL device layout to this file",
				},
				cli.IntFlag{
					Name:  "group",
					Value: 0,
					Usage: "WGSL bind group for device storage",
				},
				cli.BoolFlag{
					Name:  "skip-wgsl-check",
					Usage: "do not compile the WGSL output before writing it",
				},
			},
			Action: cmd.GenerateStorage,
		},
		{
			Name:      "schema",
			Usage:     "display the work items declared by a schema",
			ArgsUsage: "[schema_file]",
			Flags: []cli.Flag{
				schemaFlag,
				cli.BoolFlag{
					Name:  "columns, c",
					Usage: "also list the storage columns of each active work item",
				},
			},
			Action: cmd.ShowSchema,
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Render a single frame of the reference scene using the wavefront tracer.`,
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "width",
							Value: 512,
							Usage: "frame width",
						},
						cli.IntFlag{
							Name:  "height",
							Value: 512,
							Usage: "frame height",
						},
						cli.IntFlag{
							Name:  "spp",
							Value: 16,
							Usage: "samples per pixel",
						},
						cli.IntFlag{
							Name:  "num-bounces",
							Value: 5,
							Usage: "max number of bounces per path",
						},
						cli.IntFlag{
							Name:  "rr-bounces",
							Value: 3,
							Usage: "min bounces before applying russian roulette for path elimination; 0 disables russian roulette",
						},
						cli.IntFlag{
							Name:  "capacity",
							Value: 65536,
							Usage: "max number of paths traced by a single wavefront pass; 0 traces the whole frame in one pass",
						},
						cli.Float64Flag{
							Name:  "exposure",
							Value: 1.0,
							Usage: "camera exposure for tone-mapping",
						},
						cli.Int64Flag{
							Name:  "seed",
							Value: 1,
							Usage: "seed for the per-path random number streams",
						},
						cli.StringFlag{
							Name:  "backend, b",
							Value: "host",
							Usage: "execution backend (host, serial)",
						},
						cli.IntFlag{
							Name:  "workers",
							Value: 0,
							Usage: "number of host workers; 0 uses one worker per CPU",
						},
						cli.IntFlag{
							Name:  "memory-budget",
							Value: 0,
							Usage: "max bytes of work item storage; 0 disables the limit",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					},
					Action: cmd.RenderFrame,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		cmd.Fatal(err)
	}
}
