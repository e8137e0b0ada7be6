// ABOUTME: Entry point for the low latency tone demo
// ABOUTME: Parses CLI flags, opens an output backend and drives the tone engine
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/lowlatency-tone/internal/ui"
	"github.com/Resonate-Protocol/lowlatency-tone/internal/version"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/tone"
	"golang.org/x/sync/errgroup"
)

var (
	backend     = flag.String("backend", "null", "Output backend: null, oto, malgo or portaudio")
	sampleRate  = flag.Int("sample-rate", 48000, "Device sample rate in Hz")
	frames      = flag.Int("frames", 192, "Frames per buffer")
	channels    = flag.Int("channels", 1, "Output channels")
	sampleWidth = flag.Int("sample-width", 2, "Bytes per sample: 2, 3 or 4")
	burst       = flag.Int("burst", tone.DefaultBurstCount, "Tone buffers per burst")
	logFile     = flag.String("log-file", "tone-demo.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, read commands from stdin and stream logs")
	duration    = flag.Duration("duration", 0, "Exit after this long (0 runs until quit)")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s (%s)", version.Product, version.Version, version.Manufacturer)

	if err := run(useTUI); err != nil {
		log.Printf("Exiting with error: %v", err)
		_ = f.Close()
		os.Exit(1)
	}

	log.Printf("Stopped")
}

func run(useTUI bool) error {
	engine, err := tone.New(tone.Config{BurstCount: *burst})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	config := output.Config{
		Direction:       audio.DirectionPlayback,
		SampleRate:      *sampleRate,
		FramesPerBuffer: *frames,
		Channels:        *channels,
		BytesPerSample:  *sampleWidth,
	}

	stream, err := openStream(*backend, config, engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Printf("Error closing stream: %v", err)
		}
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start %s stream: %w", *backend, err)
	}
	log.Printf("Engine %s playing on %s: %s", engine.ID(), *backend, stream.Device())

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	ctrl := ui.NewToneControl()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		handleToneControl(ctx, cancel, engine, stream, ctrl)
		return nil
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-stream.Failed():
			return fmt.Errorf("stream failed: %w", stream.Err())
		}
	})

	if *duration > 0 {
		g.Go(func() error {
			select {
			case <-ctx.Done():
			case <-time.After(*duration):
				log.Printf("Duration %v elapsed", *duration)
				cancel()
			}
			return nil
		})
	}

	if useTUI {
		prog := ui.Run(ctrl, *backend)
		g.Go(func() error {
			defer cancel()
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("TUI failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			prog.Quit()
			return nil
		})
		g.Go(func() error {
			statsUpdateLoop(ctx, engine, stream, func(msg ui.StatusMsg) { prog.Send(msg) })
			return nil
		})
	} else {
		// Not part of the group: a blocked stdin read cannot be interrupted
		go readCommands(os.Stdin, ctrl)
		g.Go(func() error {
			statsLogLoop(ctx, engine, stream)
			return nil
		})
	}

	err = g.Wait()

	stats := engine.Stats()
	out := stream.Stats()
	log.Printf("Engine %s: %d tone buffers, %d silence buffers, %d reroutes, %d underruns",
		stats.ID, stats.ToneBuffers, stats.SilenceBuffers, stats.Reconfigurations, out.Underruns)
	return err
}

// openStream opens the named backend rendering from engine
func openStream(name string, config output.Config, engine *tone.Engine) (output.Stream, error) {
	var (
		stream output.Stream
		err    error
	)

	switch name {
	case "null":
		stream, err = output.OpenNull(config, engine)
	case "oto":
		stream, err = output.OpenOto(config, engine)
	case "malgo":
		stream, err = output.OpenMalgo(config, engine)
	case "portaudio":
		stream, err = output.OpenPortAudio(config, engine)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open %s output: %w", name, err)
	}
	return stream, nil
}

// handleToneControl applies commands until ctx is done or quit is requested
func handleToneControl(ctx context.Context, cancel context.CancelFunc, engine *tone.Engine, stream output.Stream, ctrl *ui.ToneControl) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ctrl.Quit:
			log.Printf("Received quit signal")
			cancel()
			return
		case cmd := <-ctrl.Commands:
			switch cmd {
			case ui.CommandStart:
				engine.StartTone()
			case ui.CommandStop:
				engine.StopTone()
			case ui.CommandReroute:
				if err := reroute(stream); err != nil {
					log.Printf("Reroute failed: %v", err)
				}
			}
		}
	}
}

// reroute toggles the stream between mono and stereo
func reroute(stream output.Stream) error {
	r, ok := stream.(output.Reconfigurer)
	if !ok {
		return errors.New("backend cannot change format while open")
	}

	dc := stream.Device()
	if dc.SamplesPerFrame == 1 {
		dc.SamplesPerFrame = 2
	} else {
		dc.SamplesPerFrame = 1
	}
	return r.Reconfigure(dc)
}

// readCommands turns stdin lines into tone commands
func readCommands(r io.Reader, ctrl *ui.ToneControl) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "t", "":
			ctrl.Commands <- ui.CommandStart
		case "s":
			ctrl.Commands <- ui.CommandStop
		case "r":
			ctrl.Commands <- ui.CommandReroute
		case "q":
			ctrl.Quit <- struct{}{}
			return
		default:
			log.Printf("Commands: t (tone), s (stop), r (reroute), q (quit)")
		}
	}
}

// statsUpdateLoop periodically updates TUI with engine statistics
func statsUpdateLoop(ctx context.Context, engine *tone.Engine, stream output.Stream, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out := stream.Stats()
			updateTUI(ui.StatusMsg{
				Stats:     engine.Stats(),
				Err:       stream.Err(),
				Periods:   out.Periods,
				Underruns: out.Underruns,
			})
		}
	}
}

// statsLogLoop logs engine statistics while a burst plays or the device starves
func statsLogLoop(ctx context.Context, engine *tone.Engine, stream output.Stream) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var (
		last    tone.Stats
		lastOut output.StreamStats
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := engine.Stats()
			out := stream.Stats()
			if stats.ToneBuffers != last.ToneBuffers || stats.Reconfigurations != last.Reconfigurations ||
				out.Underruns != lastOut.Underruns {
				log.Printf("Stats: remaining=%d tone=%d silence=%d generation=%d periods=%d underruns=%d",
					stats.Remaining, stats.ToneBuffers, stats.SilenceBuffers, stats.Generation,
					out.Periods, out.Underruns)
			}
			last = stats
			lastOut = out
		}
	}
}
