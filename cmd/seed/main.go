package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/pkg/auth/session"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminUser := flag.String("admin-user", "admin", "default admin username")
	adminPassword := flag.String("admin-password", "admin123", "default admin password")
	skipAdmin := flag.Bool("skip-admin", false, "do not create the default admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	s := &seeder{catalog: catalogService}
	if !*skipAdmin {
		// Seeding never logs anyone in, so sessions stay in memory.
		manager, err := session.NewManager(session.NewMemoryStore(), cfg.Session)
		if err != nil {
			logg.Error(ctx, "failed to create session manager", err)
			os.Exit(1)
		}
		s.admins, err = admins.NewService(admins.ServiceParams{
			Repo:     admins.NewRepository(dbClient.DB()),
			Sessions: manager,
			Password: cfg.Password,
			Logger:   logg,
		})
		if err != nil {
			logg.Error(ctx, "failed to create admin service", err)
			os.Exit(1)
		}
	}

	rows, err := s.run(ctx, *adminUser, *adminPassword)
	if renderErr := renderSummary(os.Stdout, rows); renderErr != nil {
		logg.Error(ctx, "failed to render summary", renderErr)
	}
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "rows", len(rows)), "seed complete")
}

func renderSummary(w io.Writer, rows []seedRow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Kind", "Key", "Status")
	created := 0
	for _, r := range rows {
		if r.Status == statusCreated {
			created++
		}
		if err := table.Append([]string{r.Kind, r.Key, r.Status}); err != nil {
			return err
		}
	}
	table.Footer("", "created", fmt.Sprintf("%d/%d", created, len(rows)))
	return table.Render()
}
