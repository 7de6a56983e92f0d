// Command import loads a games JSON dump into the catalog, upserting each
// entry by its external id. The dump uses the RAWG export shape:
//
//	[{"id": 12345, "name": "...", "description_raw": "...",
//	  "background_image": "...", "released": "2017-02-24",
//	  "platforms": [{"platform": {"name": "PC"}}],
//	  "genres": [{"name": "Adventure"}]}]
//
// Usage: import -file games.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"gamerscove/config"
	"gamerscove/logger"
	models "gamerscove/models/postgres"
	"gamerscove/services/games"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type rawgGame struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DescriptionRaw string `json:"description_raw"`
	BackgroundImg  string `json:"background_image"`
	Released       string `json:"released"`
	Platforms      []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (r *rawgGame) toModel() *models.Game {
	game := &models.Game{
		ExternalAPIID: strconv.FormatInt(r.ID, 10),
		Title:         r.Name,
		Description:   r.DescriptionRaw,
		CoverImageURL: r.BackgroundImg,
	}
	if r.Released != "" {
		if released, err := time.Parse("2006-01-02", r.Released); err == nil {
			game.ReleaseDate = &released
		}
	}

	platforms := make([]string, 0, len(r.Platforms))
	for _, p := range r.Platforms {
		platforms = append(platforms, p.Platform.Name)
	}
	game.SetPlatformList(platforms)

	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, g.Name)
	}
	game.SetGenreList(genres)
	return game
}

func main() {
	file := flag.String("file", "", "path to the games JSON dump")
	flag.Parse()
	if *file == "" {
		log.Fatal("usage: import -file games.json")
	}

	godotenv.Load()
	if err := logger.Initialize(os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Log.Fatalw("error reading dump", "file", *file, "error", err)
	}

	var entries []rawgGame
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Log.Fatalw("malformed dump", "file", *file, "error", err)
	}

	db, err := config.ConnectGORM()
	if err != nil {
		logger.Log.Fatalw("error connecting to PostgreSQL", "error", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		logger.Log.Fatalw("error migrating database", "error", err)
	}

	service := games.NewService(db)
	ctx := context.Background()

	imported := 0
	for i := range entries {
		if _, err := service.Upsert(ctx, entries[i].toModel()); err != nil {
			logger.Log.Warnw("skipping entry", "title", entries[i].Name, "error", err)
			continue
		}
		imported++
	}
	logger.Log.Infow("import finished", "imported", imported, "total", len(entries))
}
