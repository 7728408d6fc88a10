package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/service"
	"github.com/blog-content-api/pkg/logger"
	"github.com/rs/zerolog"
)

// options are the command-line modes; exactly one must be selected
type options struct {
	file        string
	image       string
	slug        string
	migrateDown bool
}

func (o options) validate(driver string) error {
	modes := 0
	for _, set := range []bool{o.file != "", o.image != "", o.migrateDown} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of -file, -attach-image or -migrate-down is required")
	}
	if o.image != "" && o.slug == "" {
		return errors.New("-slug is required with -attach-image")
	}
	if o.migrateDown && driver != config.DriverPostgres {
		return fmt.Errorf("-migrate-down requires the %s store driver", config.DriverPostgres)
	}
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "NDJSON file of articles to import")
	flag.StringVar(&opts.image, "attach-image", "", "local image path or URL to attach to an article")
	flag.StringVar(&opts.slug, "slug", "", "article slug for -attach-image")
	flag.BoolVar(&opts.migrateDown, "migrate-down", false, "roll back the last postgres migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format).With().Str("command", "seed").Logger()

	if err := opts.validate(cfg.Store.Driver); err != nil {
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	if opts.migrateDown {
		if err := migrateDown(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("Rollback failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer closeStore()

	services := service.NewServices(repos, cfg, log)

	if opts.file != "" {
		err = importArticles(ctx, services, opts.file, log)
	} else {
		err = attachImage(ctx, services, opts.slug, opts.image, log)
	}
	if err != nil {
		log.Error().Err(err).Msg("Seed failed")
		closeStore()
		os.Exit(1)
	}
}

// migrateDown connects without applying pending migrations and rolls back one step
func migrateDown(cfg *config.Config, log zerolog.Logger) error {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.MigrateDown(cfg.Store.MigrationsPath)
}

func importArticles(ctx context.Context, services *service.Services, path string, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := services.Seed.ImportArticles(ctx, f)
	if err != nil {
		return err
	}

	for _, e := range report.Errors {
		log.Warn().Int("line", e.Line).Str("field", e.Field).Msg(e.Message)
	}
	log.Info().
		Int("total", report.Total).
		Int("inserted", report.Inserted).
		Int("failed", report.Failed).
		Int64("duration_ms", report.DurationMs).
		Msg("Import finished")
	return nil
}

// attachImage stores a local image in the upload directory, or uses a URL as is,
// and records it on the article
func attachImage(ctx context.Context, services *service.Services, slug, source string, log zerolog.Logger) error {
	imageURL := source
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return err
		}
		defer f.Close()

		img, err := services.Upload.StoreImage(ctx, source, f)
		if err != nil {
			return err
		}
		imageURL = img.ImageURL
	}

	if err := services.Article.AttachImage(ctx, slug, imageURL); err != nil {
		return err
	}
	log.Info().Str("slug", slug).Str("image_url", imageURL).Msg("Image attached")
	return nil
}
