// Command fbconsole renders text into a software framebuffer console.
//
// Input comes from the files named on the command line, or from stdin.
// Frames are written to a PNG file (--output), previewed in the terminal
// (--term), or both. With --follow, files are watched and appended text is
// drawn as it arrives.
//
//	fbconsole --output screen.png README.md
//	tail -n 100 app.log | fbconsole --term
//	fbconsole --term --follow /var/log/app.log
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/fbcon"
	"github.com/gogpu/fbcon/framebuffer"
	"github.com/gogpu/fbcon/glyph"
	"github.com/gogpu/fbcon/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	output      string
	term        bool
	follow      bool
	showVersion bool
	cfg         config.Config
}

// parseFlags builds the configuration: defaults, then the config file, then
// explicitly set flags.
func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var (
		o   options
		set config.Config
	)
	fs := pflag.NewFlagSet("fbconsole", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fbconsole [flags] [file ...]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	def := config.Default()
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	fs.IntVar(&set.Width, "width", def.Width, "framebuffer width in pixels")
	fs.IntVar(&set.Height, "height", def.Height, "framebuffer height in pixels")
	fs.Float64VarP(&set.FontSize, "font-size", "s", def.FontSize, "font size in pixels")
	fs.StringVarP(&set.Font, "font", "f", def.Font, "TTF/OTF font file (default Go Mono)")
	fs.StringVar(&set.Backend, "backend", def.Backend, "glyph backend: ximage or gotext")
	fs.IntVar(&set.CacheSize, "cache", def.CacheSize, "glyph cache capacity")
	fs.IntVar(&set.TabWidth, "tab-width", def.TabWidth, "expand tabs to this many columns (0 keeps them)")
	fs.BoolVar(&set.Normalize, "normalize", def.Normalize, "NFC-normalize input text")
	fs.StringVar(&set.LogLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")
	fs.StringVarP(&o.output, "output", "o", "", "write each frame to this PNG file")
	fs.BoolVarP(&o.term, "term", "t", false, "preview frames in the terminal")
	fs.BoolVarP(&o.follow, "follow", "F", false, "keep watching input files for appended text")
	fs.BoolVarP(&o.showVersion, "version", "v", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if o.showVersion {
		return o, nil, nil
	}

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return o, nil, err
		}
	}

	overrides := map[string]func(){
		"width":     func() { cfg.Width = set.Width },
		"height":    func() { cfg.Height = set.Height },
		"font-size": func() { cfg.FontSize = set.FontSize },
		"font":      func() { cfg.Font = set.Font },
		"backend":   func() { cfg.Backend = set.Backend },
		"cache":     func() { cfg.CacheSize = set.CacheSize },
		"tab-width": func() { cfg.TabWidth = set.TabWidth },
		"normalize": func() { cfg.Normalize = set.Normalize },
		"log-level": func() { cfg.LogLevel = set.LogLevel },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}
	if err := cfg.Validate(); err != nil {
		return o, nil, err
	}

	o.cfg = cfg
	return o, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, files, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "fbconsole version %s\n", version)
		return 0
	}
	if o.follow && len(files) == 0 {
		fmt.Fprintln(stderr, "Error: --follow needs at least one file")
		return 2
	}

	level, _ := o.cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	fbcon.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, o, files, stdin, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// serve builds the console, feeds it the inputs and, in follow or terminal
// mode, keeps it running until interrupted.
func serve(ctx context.Context, o options, files []string, stdin io.Reader, logger *slog.Logger) error {
	face, err := loadFace(o.cfg)
	if err != nil {
		return err
	}

	var presenters multiPresenter
	if o.output == "" && !o.term {
		logger.Warn("fbconsole: neither --output nor --term given, frames are discarded")
	}
	if o.output != "" {
		presenters = append(presenters, &framebuffer.PNGPresenter{Path: o.output, Opaque: true})
	}

	var term *terminal
	if o.term {
		if term, err = openTerminal(); err != nil {
			return err
		}
		defer term.Close()
		presenters = append(presenters, framebuffer.NewTermPresenter(term.screen))
	}

	fb, err := framebuffer.New(o.cfg.Width, o.cfg.Height, o.cfg.PixelFormat(), o.cfg.Buffering,
		framebuffer.WithStrideAlign(o.cfg.StrideAlign),
		framebuffer.WithPresenter(presenters),
		framebuffer.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []fbcon.Option{
		fbcon.WithCacheCapacity(o.cfg.CacheSize),
		fbcon.WithTabWidth(o.cfg.TabWidth),
	}
	if o.cfg.Normalize {
		opts = append(opts, fbcon.WithNormalization(norm.NFC))
	}
	con, err := fbcon.New(fb, face, opts...)
	if err != nil {
		return err
	}

	var fol *follower
	if o.follow {
		if fol, err = newFollower(files); err != nil {
			return err
		}
		defer fol.Close()
		if err := fol.DrainAll(con); err != nil {
			return err
		}
	} else if err := feed(con, files, stdin); err != nil {
		return err
	}
	con.Flush()
	if err := con.Update(); err != nil {
		return err
	}

	if fol == nil && term == nil {
		return nil
	}
	return loop(ctx, con, fol, term, logger)
}

func loadFace(cfg config.Config) (glyph.Face, error) {
	var (
		font glyph.Font
		err  error
	)
	if cfg.Font == "" {
		font, err = glyph.DefaultFont(glyph.WithBackend(cfg.Backend))
	} else {
		font, err = glyph.ParseFontFile(cfg.Font, glyph.WithBackend(cfg.Backend))
	}
	if err != nil {
		return nil, err
	}
	return font.Face(cfg.FontSize)
}

// feed copies every file, or stdin when there are none, into con.
func feed(con *fbcon.Console, files []string, stdin io.Reader) error {
	if len(files) == 0 {
		_, err := io.Copy(con, stdin)
		return err
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(con, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
	}
	return nil
}

// loop redraws on file growth and terminal resizes until ctx is done or the
// user quits the terminal preview.
func loop(ctx context.Context, con *fbcon.Console, fol *follower, term *terminal, logger *slog.Logger) error {
	var (
		changed <-chan string
		werrs   <-chan error
		quit    <-chan struct{}
		resized <-chan struct{}
	)
	if fol != nil {
		changed, werrs = fol.Changed(), fol.Errors()
	}
	if term != nil {
		quit, resized = term.Quit(), term.Resized()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-quit:
			return nil
		case <-resized:
			if err := con.Redraw(); err != nil {
				return err
			}
		case name, ok := <-changed:
			if !ok {
				return nil
			}
			if err := fol.Drain(name, con); err != nil {
				return err
			}
			if err := con.Update(); err != nil {
				return err
			}
		case err, ok := <-werrs:
			if !ok {
				return nil
			}
			logger.Warn("fbconsole: watch error", slog.String("error", err.Error()))
		}
	}
}
