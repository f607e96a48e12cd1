// Command sde builds the reference dataset used for type and group names: it
// downloads the static data export, converts types and groups to JSON and can
// import the result into MongoDB.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"go-recruiter/pkg/config"
	"go-recruiter/pkg/database"
	"go-recruiter/pkg/logging"
	"go-recruiter/pkg/sde"

	"github.com/joho/godotenv"
)

const sdeURL = "https://eve-static-data-export.s3-eu-west-1.amazonaws.com/tranquility/sde.zip"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	var (
		dataDir  = flag.String("data-dir", config.GetEnv("SDE_DATA_DIR", "data/sde"), "directory for types.json and groups.json")
		tmpDir   = flag.String("tmp-dir", "tmp", "download and extraction directory")
		url      = flag.String("url", sdeURL, "static data export archive")
		doImport = flag.Bool("import", false, "import the converted dataset into MongoDB")
	)
	flag.Parse()

	ctx := context.Background()
	telemetry := logging.NewTelemetryManager()
	if err := telemetry.Initialize(ctx); err != nil {
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
	}
	defer telemetry.Shutdown(ctx)

	if err := run(ctx, *url, *tmpDir, *dataDir, *doImport); err != nil {
		slog.Error("SDE processing failed", "error", err)
		os.Exit(1)
	}
	slog.Info("SDE processing completed successfully")
}

func run(ctx context.Context, url, tmpDir, dataDir string, doImport bool) error {
	if err := os.MkdirAll(tmpDir, os.ModePerm); err != nil {
		return err
	}

	zipFile := filepath.Join(tmpDir, "sde.zip")
	if _, err := os.Stat(zipFile); os.IsNotExist(err) {
		slog.Info("SDE zip file not found, downloading...", "url", url)
		if err := downloadFile(zipFile, url); err != nil {
			return err
		}
	} else {
		slog.Info("SDE zip file already exists, skipping download", "path", zipFile)
	}

	extractDir := filepath.Join(tmpDir, "sde")
	if err := extractFiles(zipFile, extractDir, "fsd/types.yaml", "fsd/groups.yaml"); err != nil {
		return err
	}

	types, err := convertTypes(filepath.Join(extractDir, "types.yaml"), dataDir)
	if err != nil {
		return err
	}
	groups, err := convertGroups(filepath.Join(extractDir, "groups.yaml"), dataDir)
	if err != nil {
		return err
	}
	slog.Info("Converted reference dataset", "types", types, "groups", groups, "data_dir", dataDir)

	if !doImport {
		return nil
	}
	return importToMongo(ctx, dataDir)
}

func importToMongo(ctx context.Context, dataDir string) error {
	db, err := database.NewMongoDB(ctx, "sde")
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	store := sde.NewMongoStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	n, err := store.Import(ctx, sde.NewService(dataDir))
	if err != nil {
		return err
	}
	slog.Info("Imported reference dataset into MongoDB", "documents", n)
	return nil
}
