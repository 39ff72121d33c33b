package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"villa_mare/internal/adapters/extractor"
	"villa_mare/internal/adapters/observability"
	redisad "villa_mare/internal/adapters/redis"
	"villa_mare/internal/app"
	"villa_mare/internal/shared"
	mysqlrepo "villa_mare/internal/storage/mysql"
)

// importer pulls guest reviews from third-party pages and stores them
// unpublished, ready for moderation.
//
//	importer https://www.airbnb.it/rooms/1/reviews ...
//	importer -file urls.txt
func main() {
	file := flag.String("file", "", "read review page URLs from this file, one per line")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	urls := flag.Args()
	if *file != "" {
		fromFile, err := readURLs(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("read URL list failed")
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		log.Fatal().Msg("no review URLs given")
	}

	log.Info().
		Int("urls", len(urls)).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	client, err := extractor.New(cfg.AIBase, cfg.AIKey, cfg.AIModel, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review extractor")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	reviews := app.NewReviewService(repo, client, cache, cfg.Now)

	workers := cfg.ImportWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, u := range urls {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer sem.Release(1)

			r, err := reviews.Import(ctx, url)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("url", url).Err(err).Msg("import failed")
				return
			}
			log.Info().Str("url", url).Str("id", r.ID).Str("guest", r.GuestName).Msg("import ok")
		}(u)
	}

	wg.Wait()
	log.Info().Int("imported", len(urls)-int(failed.Load())).Int32("failed", failed.Load()).Msg("import completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
