// Package main is a diagnostic tool for database connectivity. It loads the same
// configuration as the server, connects, and prints every organization with its
// user count and status. It exits non-zero on any failure so it can gate
// deployment steps on a reachable, migrated database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/orgadmin/orgadmin/internal/config"
	"github.com/orgadmin/orgadmin/internal/db"
	"github.com/orgadmin/orgadmin/internal/db/repositories"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.Database.GetDSN(), 2, 1)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orgRepo := repositories.NewOrganizationRepository(database)
	userRepo := repositories.NewUserRepository(database)

	orgs, err := orgRepo.List(ctx, "")
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Println("=== ORGANIZATIONS ===")
	for _, o := range orgs {
		users, err := userRepo.ListByOrganization(ctx, o.ID)
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		status := "-"
		if o.Status != nil {
			status = string(*o.Status)
		}
		fmt.Printf("%4d  %-20s %-10s users=%d\n", o.ID, o.Slug, status, len(users))
	}

	total, err := orgRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Count failed: %v", err)
	}
	fmt.Printf("\nTotal: %d organizations\n", total)
}
