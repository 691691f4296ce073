package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/pkg/profile"

	"github.com/lixenwraith/skirmish/asset"
	"github.com/lixenwraith/skirmish/audio"
	"github.com/lixenwraith/skirmish/config"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/level"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/platform"
	"github.com/lixenwraith/skirmish/render"
	"github.com/lixenwraith/skirmish/service"
	"github.com/lixenwraith/skirmish/sim"
	"github.com/lixenwraith/skirmish/status"
)

var (
	levelFlag   = flag.String("level", "", "Level file (.toml or .lvlb); empty uses the config level or the built-in demo")
	configFlag  = flag.String("config", "", "Simulation config file (TOML)")
	debugFlag   = flag.Bool("debug", false, "Log to logs/ and start with the debug overlay")
	profileFlag = flag.String("profile", "", "Write a profile to the working directory: cpu, mem")
	muteFlag    = flag.Bool("mute", false, "Start with audio muted")
	watchFlag   = flag.Bool("watch", false, "Reload the level file when it changes on disk")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	switch *profileFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileFlag)
		return 2
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	reg := status.NewRegistry()
	loader := asset.NewLoader(parameter.AssetWorkers, parameter.AssetQueueSize, reg)
	s, err := sim.New(cfg, loader, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation: %v\n", err)
		return 1
	}

	path := *levelFlag
	if path == "" {
		path = cfg.Level
	}
	if err := loadInitial(s, path); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	s.SetDebug(*debugFlag)

	// Service wiring: the backend starts after the loader and, for the terminal, after the speaker
	hub := service.NewHub()
	_ = hub.Register(loader)

	audioCfg := audio.LoadConfig()
	var sink platform.SoundSink
	var backendDeps []string
	if platform.NativeAudio {
		if *muteFlag {
			audioCfg.Enabled = false
		}
	} else {
		player := audio.NewPlayer(audioCfg, reg)
		_ = hub.Register(player)
		sink = player
		backendDeps = append(backendDeps, player.Name())
	}
	backendDeps = append(backendDeps, loader.Name())

	backend, err := platform.New(platform.Options{Sound: sink, Audio: audioCfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend: %v\n", err)
		return 1
	}
	_ = hub.Register(platform.NewService(backend, backendDeps...))

	// Library goroutines report panics here so the display is restored before exit
	core.SetCrashHandler(func(r any) {
		backend.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mSKIRMISH CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := hub.InitAll(*muteFlag); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		return 1
	}
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		return 1
	}
	defer hub.StopAll()

	var changed <-chan struct{}
	if *watchFlag && path != "" {
		changed = watchFile(path, time.Second)
	}

	err = backend.Run(func(elapsed time.Duration, in core.InputState) (*render.Frame, error) {
		if in.Quit {
			return nil, platform.ErrQuit
		}
		select {
		case <-changed:
			if _, err := s.RequestLevel(path); err != nil {
				log.Printf("reload %s: %v", path, err)
			}
		default:
		}

		s.Advance(elapsed, in)
		for _, id := range s.SoundCues() {
			backend.PlaySound(id)
		}
		for _, w := range s.Warnings() {
			log.Printf("warning: %s", w)
		}
		s.LevelEvents()
		return s.Frame(), nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 1
	}
	return 0
}

// loadInitial loads path synchronously, or the demo level when path is empty
func loadInitial(s *sim.Simulation, path string) error {
	if path != "" {
		return s.LoadLevelFile(path)
	}
	lvl, err := level.Demo(s.Layers())
	if err != nil {
		return fmt.Errorf("demo level: %w", err)
	}
	return s.LoadLevel(lvl)
}

// watchFile signals when the file's modification time changes
// The channel holds at most one pending signal
func watchFile(path string, every time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	last := modTime(path)
	core.Go(func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for range ticker.C {
			m := modTime(path)
			if m.Equal(last) {
				continue
			}
			last = m
			select {
			case out <- struct{}{}:
			default:
			}
		}
	})
	return out
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
