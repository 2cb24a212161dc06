package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/renderer"
	"github.com/achilleasa/wavefront/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

// Render a still frame of the reference scene.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		Exposure:        float32(ctx.Float64("exposure")),
		NumBounces:      uint32(ctx.Int("num-bounces")),
		MinBouncesForRR: uint32(ctx.Int("rr-bounces")),
		Capacity:        uint32(ctx.Int("capacity")),
		Seed:            uint64(ctx.Int64("seed")),
	}

	if opts.MinBouncesForRR == 0 || opts.MinBouncesForRR >= opts.NumBounces {
		logger.Notice("disabling RR for path elimination")
		opts.MinBouncesForRR = opts.NumBounces + 1
	}

	if opts.FrameW == 0 || opts.FrameH == 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", opts.FrameW, opts.FrameH)
	}
	sc := scene.ReferenceScene(float32(opts.FrameW) / float32(opts.FrameH))

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		opts.Progress = progressPrinter(fd)
	}

	var (
		r   renderer.Renderer
		err error
	)
	switch ctx.String("backend") {
	case "host":
		r, err = renderer.NewDefault(backend.NewHost(backend.HostOptions{
			Workers:      ctx.Int("workers"),
			MemoryBudget: ctx.Int("memory-budget"),
		}), sc, opts)
	case "serial":
		r, err = renderer.NewDefault(backend.NewSerial(backend.SerialOptions{
			MemoryBudget: ctx.Int("memory-budget"),
		}), sc, opts)
	default:
		return fmt.Errorf("unsupported backend %q; expected one of host, serial", ctx.String("backend"))
	}
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	err = r.Render(renderCtx)
	if opts.Progress != nil {
		fmt.Fprintln(os.Stdout)
	}
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err = r.Film().Save(imgFile, opts.Exposure); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Overwrite a single terminal line with the render progress.
func progressPrinter(fd int) func(done, total int) {
	return func(done, total int) {
		line := fmt.Sprintf("rendering: %d/%d passes (%3.0f%%)", done, total, 100*float32(done)/float32(total))
		if width, _, err := term.GetSize(fd); err == nil && width > len(line) {
			line += strings.Repeat(" ", width-len(line)-1)
		}
		fmt.Fprintf(os.Stdout, "\r%s", line)
	}
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Render time", "% of frame"})
	for _, stat := range stats.Stages {
		table.Append([]string{
			stat.Stage.String(),
			stat.RenderTime.String(),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
		})
	}
	table.SetFooter([]string{fmt.Sprintf("%d passes", stats.Passes), "TOTAL", stats.RenderTime.String()})
	table.Render()

	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Bounce", "Rays", "Hits", "Terminated"})
	for index, stat := range stats.Bounces {
		table.Append([]string{
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.Hits),
			fmt.Sprintf("%d", stat.Terminated),
		})
	}
	table.Render()

	logger.Noticef("frame statistics (up to %d paths per pass)\n%s", stats.Capacity, buf.String())
}
