package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"classaction-admin/internal/common/config"
	"classaction-admin/internal/common/database"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/records"
	"classaction-admin/internal/search"
)

func main() {
	pgCmd := flag.NewFlagSet("postgres", flag.ExitOnError)
	schemaOnly := pgCmd.Bool("schema-only", false, "Create tables without inserting fixture rows")

	esCmd := flag.NewFlagSet("elasticsearch", flag.ExitOnError)
	index := esCmd.String("index", "", "Index name (defaults to search.index from config)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "postgres":
		pgCmd.Parse(os.Args[2:])
		if err := seedPostgres(ctx, cfg, *schemaOnly); err != nil {
			fmt.Printf("Error seeding postgres: %v\n", err)
			os.Exit(1)
		}

	case "elasticsearch":
		esCmd.Parse(os.Args[2:])
		name := *index
		if name == "" {
			name = cfg.Search.Index
		}
		if err := seedElasticsearch(ctx, cfg, name); err != nil {
			fmt.Printf("Error seeding elasticsearch: %v\n", err)
			os.Exit(1)
		}

	default:
		help()
		os.Exit(1)
	}
}

func seedPostgres(ctx context.Context, cfg *config.Config, schemaOnly bool) error {
	pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	store := records.NewPostgres(pg.DB, config.GetDuration(cfg.Store.QueryTimeout))
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Println("Schema ready")
	if schemaOnly {
		return nil
	}

	members, err := store.InsertMembers(ctx, records.FixtureMembers())
	if err != nil {
		return err
	}
	subs, err := store.InsertSubmissions(ctx, records.FixtureSubmissions())
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d members and %d submissions\n", members, subs)
	return nil
}

func seedElasticsearch(ctx context.Context, cfg *config.Config, index string) error {
	es, err := database.ConnectElasticsearch(ctx, cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(es.Client, index, config.GetDuration(cfg.Search.Timeout), logger.NewNoOpLogger())
	if err := searcher.EnsureIndex(ctx); err != nil {
		return err
	}
	n, err := searcher.IndexSubmissions(ctx, records.FixtureSubmissions())
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d submissions into %s\n", n, index)
	return nil
}

func help() {
	fmt.Println("Usage: seed-records <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  postgres       Create the members/submissions tables and insert fixture rows")
	fmt.Println("  elasticsearch  Create the submissions index and index fixture submissions")
}
