package main

import (
	"context"
	"flag"
	"log"
	"os"

	"herbstore/internal/config"
	"herbstore/internal/db"
	"herbstore/internal/importer"
	productrepo "herbstore/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog JSON export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open catalog file: %v", err)
	}
	defer f.Close()

	imp := importer.New(productrepo.NewPostgres(pool, logger))
	n, err := imp.Run(ctx, f)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", n, err)
	}
	logger.Printf("imported %d products", n)
}
