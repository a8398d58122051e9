package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gruntwork-io/go-commons/entrypoint"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"k8s.io/utils/clock"

	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/score"
	"github.com/robmorgan/cadence/world"
)

func main() {
	entrypoint.RunApp(newApp())
}

func newApp() *cli.App {
	app := entrypoint.NewApp()
	app.Name = "cadence"
	app.Usage = "play a beat-synchronized score headlessly"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
		&cli.StringFlag{Name: "score", Usage: "score to play, relative to the asset root"},
		&cli.StringFlag{Name: "assets", Usage: "directory searched for assets before the embedded ones"},
		&cli.Int64Flag{Name: "seed", Usage: "seed for the score's random choices"},
		&cli.Float64Flag{Name: "skip", Usage: "beat to start playing from, replacing the score's own skip"},
	}
	app.Action = func(c *cli.Context) error {
		ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
		defer cancel()
		return play(ctx, c)
	}
	return app
}

// Run parses args as the command line and plays the configured score until it ends or ctx is cancelled.
func Run(ctx context.Context, args []string) error {
	return newApp().RunContext(ctx, append([]string{"cadence"}, args...))
}

func play(ctx context.Context, c *cli.Context) error {
	logger := logger.GetProjectLogger()

	logger.Info("Initializing config...")
	cfg := config.NewConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return err
		}
	}
	if c.IsSet("score") {
		cfg.ScorePath = c.String("score")
	}
	if c.IsSet("assets") {
		cfg.AssetRoot = c.String("assets")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	cfg.Logger.SetLevel(level)

	logger.WithFields(logrus.Fields{"score": cfg.ScorePath, "seed": cfg.Seed}).Info("Loading score...")
	song, err := score.Load(cfg.Loader(), cfg.ScorePath, cfg.Seed)
	if err != nil {
		return err
	}
	if c.IsSet("skip") {
		song.Skip = rhythm.Beats(c.Float64("skip"))
		if err := song.Validate(); err != nil {
			return err
		}
	}

	loop, err := engine.NewLoop(clock.RealClock{}, song, world.NewState(), engine.Options{
		FPS:       cfg.FPS,
		Player:    cfg.Player.Pos(),
		StopAfter: rhythm.Beats(cfg.StopAfter),
	})
	if err != nil {
		return err
	}

	logger.Info("Playing song...")
	stats, err := loop.Run(ctx)
	logger.WithFields(logrus.Fields{
		"frames":     stats.Frames,
		"dispatched": stats.Dispatched,
		"hits":       stats.Hits,
		"beat":       stats.LastBeat.Float(),
	}).Info("shutting down cadence")
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}
