package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/Garsondee/battlescape/internal/mission"
	"github.com/Garsondee/battlescape/internal/terrain"
	"github.com/Garsondee/battlescape/internal/viewer"
)

func main() {
	cfg, err := mission.LoadConfig(mission.NewFlagSet("battlescape"), os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := cfg.Logger(os.Stderr)

	desc, err := mission.Load(cfg.Mission)
	if err != nil {
		log.Fatal().Err(err).Msg("load mission")
	}
	rng := rand.New(rand.NewSource(cfg.SeedBase)) // #nosec G404 -- reproducible deployments
	t, err := mission.Build(desc, rng, log,
		terrain.WithJournal(terrain.NewJournal()),
		terrain.WithVision(cfg.Vision),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build terrain")
	}
	xcorp, aliens, err := mission.Deploy(t, desc)
	if err != nil {
		log.Fatal().Err(err).Msg("deploy teams")
	}

	v := viewer.New(t, xcorp, aliens, cfg.Scale, log)
	ebiten.SetWindowTitle("Battlescape - " + desc.Name)
	ebiten.SetWindowSize(v.WindowSize())
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal().Err(err).Msg("viewer")
	}
}
