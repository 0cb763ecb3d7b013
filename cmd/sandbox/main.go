package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/evostage/common"
	"github.com/milk9111/evostage/prefabs"
)

func main() {
	settings, err := prefabs.ParseEnv()
	if err != nil {
		log.Fatal(err)
	}
	specPath := flag.String("spec", settings.SpecPath, "tuning overlay YAML")
	watch := flag.Bool("watch", true, "reload the spec when it changes on disk")
	flag.Parse()

	logger, err := common.NewLogger(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	game, err := NewSandbox(*specPath, settings.Seed, logger)
	if err != nil {
		log.Fatal(err)
	}
	if *watch && *specPath != "" {
		if err := game.Watch(*specPath); err != nil {
			logger.Warn("sandbox: watch disabled", "err", err)
		}
	}
	defer game.Close()

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle(fmt.Sprintf("evostage sandbox (%s)", game.spec.Name))
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
