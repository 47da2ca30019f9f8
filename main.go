package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

var version string

func setupLogging(level string, verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warnln("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts, _, err := getopt.Getopts(os.Args, "c:l:d:mv")
	if err != nil {
		logrus.Fatal(err)
	}
	var (
		configPath string
		listen     *string
		display    *string
		verbose    bool
		serveMCP   bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'l':
			v := opt.Value
			listen = &v
		case 'd':
			v := opt.Value
			display = &v
		case 'm':
			serveMCP = true
		case 'v':
			verbose = true
		}
	}
	if configPath == "" {
		if configPath, err = DefaultConfigPath(); err != nil {
			logrus.Fatal(err)
		}
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if listen != nil {
		cfg.Listen = *listen
	}
	if display != nil {
		cfg.Display = *display
	}
	setupLogging(cfg.LogLevel, verbose)
	if version != "" {
		logrus.Infof("version: %s", version)
	}

	sim := NewSimClients(cfg.SimulatedLatency)
	comp := NewCompositor(cfg, sim, nil)
	loop := NewLoop(comp, nil, cfg.FrameInterval)
	sim.Attach(loop.Post)

	sup := suture.New("headless-compositor", suture.Spec{
		EventHook: func(e suture.Event) {
			logrus.WithField("supervisor", e.Type()).Warnln(e.String())
		},
	})
	sup.Add(loop)
	sup.Add(sim)
	if cfg.Listen != "" {
		sup.Add(NewAPIServer(loop, sim, cfg.Listen))
	}
	if serveMCP {
		sup.Add(NewMCPServer(loop, sim))
	}
	if cfg.Display != "" {
		sup.Add(NewX11Backend(cfg.Display, cfg.Output, loop))
	}
	if _, err := os.Stat(configPath); err == nil {
		sup.Add(NewConfigWatcher(configPath, loop, verbose))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sup.Serve(ctx)
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, suture.ErrTerminateSupervisorTree):
		logrus.Infoln("bye")
	default:
		logrus.Fatal(err)
	}
}
