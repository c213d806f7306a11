// cmd/annunciator/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tahcohcat/annunciator/config"
	"github.com/tahcohcat/annunciator/internal/announcement"
	"github.com/tahcohcat/annunciator/internal/audio"
	"github.com/tahcohcat/annunciator/internal/database"
	"github.com/tahcohcat/annunciator/internal/logger"
	"github.com/tahcohcat/annunciator/internal/services"
	"github.com/tahcohcat/annunciator/internal/tts"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger.New().WithError(err).Error("Error")
		os.Exit(1)
	}
}

func run(args []string) error {
	// A missing .env is normal; credentials usually come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.GlobalLogLevel = level
	log := logger.New()

	var usage *services.UsageService
	if cfg.Ledger.Path != "" {
		db, err := database.NewDB(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		usage = services.NewUsageService(db)
	}

	if cfg.ShowUsage {
		return printUsage(log, cfg.Ledger.Path, usage)
	}

	announcements, err := announcement.LoadFile(cfg.InputPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	synth, err := tts.NewSynthesizer(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := synth.(io.Closer); ok {
		defer closer.Close()
	}
	log.Debug(fmt.Sprintf("Using %s in %s", synth.Name(), cfg.AWS.Region))

	if needsMerging(announcements) {
		checkDependency(log, "ffmpeg")
		checkDependency(log, "ffprobe")
	}

	proc := announcement.NewProcessor(announcement.Options{
		OutputDirectory: cfg.OutputDirectory,
		Overwrite:       cfg.Overwrite,
		SkipInvalid:     cfg.SkipInvalid,
		Timeout:         time.Duration(cfg.Tts.Timeout) * time.Second,
	}, synth, audio.NewFFmpeg())

	runID := 0
	if usage != nil {
		r, err := usage.StartRun(cfg.InputPath, cfg.Tts.Provider)
		if err != nil {
			// Non-fatal error, just log it
			log.WithError(err).Warn("Usage ledger unavailable for this run")
		} else {
			runID = r.ID
			proc.WithRecorder(usage.ForRun(runID))
		}
	}

	summary, runErr := proc.Run(ctx, announcements)

	if runID != 0 {
		if err := usage.FinishRun(runID, summary.ItemsProcessed, summary.ItemsCompleted, summary.CharactersSubmitted); err != nil {
			log.WithError(err).Warn("Failed to close run in usage ledger")
		}
	}

	return runErr
}

func printUsage(log *logger.Log, path string, usage *services.UsageService) error {
	if usage == nil {
		return errors.New("--usage needs a ledger (--ledger or ledger.path)")
	}
	totals, err := usage.Totals()
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Ledger %s: %d runs, %d files, approximately %d characters synthesized.",
		path, totals.Runs, totals.Files, totals.Characters))
	return nil
}

func needsMerging(items []announcement.Announcement) bool {
	for _, a := range items {
		if a.Prepend != nil {
			return true
		}
	}
	return false
}

func checkDependency(log *logger.Log, cmdName string) {
	if _, err := exec.LookPath(cmdName); err != nil {
		log.Warn(fmt.Sprintf("%s is not installed or not in PATH. Prepending clips will fail.", cmdName))
		return
	}
	log.Debug(fmt.Sprintf("Checked %s: OK", cmdName))
}
