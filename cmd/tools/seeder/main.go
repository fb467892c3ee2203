package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/repo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	queries := repo.New(pool)

	seedCatalog(ctx, queries)
	seedTiers(ctx, queries)

	log.Println("Seeding completed successfully!")
}

type itemSeed struct {
	Name        string
	Rate        string
	RateType    string
	RateUnit    string
	MaxQuantity int32
	EventType   string
	Active      bool
}

func seedCatalog(ctx context.Context, q *repo.Queries) {
	catalog := []struct {
		Category string
		Mode     string
		Items    []itemSeed
	}{
		{
			Category: "Crew", Mode: "general",
			Items: []itemSeed{
				{Name: "Photographer", Rate: "150.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 5, Active: true},
				{Name: "Videographer", Rate: "180.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 5, Active: true},
				{Name: "Lighting Assistant", Rate: "60.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 3, Active: true},
			},
		},
		{
			Category: "Equipment", Mode: "general",
			Items: []itemSeed{
				{Name: "Studio Rental", Rate: "500.00", RateType: "per_day", RateUnit: "day", MaxQuantity: 3, Active: true},
				{Name: "Drone Package", Rate: "250.00", RateType: "flat", Active: true},
				{Name: "Lighting Kit", Rate: "75.00", RateType: "per_unit", MaxQuantity: 10, Active: true},
			},
		},
		{
			Category: "Post-production", Mode: "general",
			Items: []itemSeed{
				{Name: "Edited Photo", Rate: "12.50", RateType: "per_unit", MaxQuantity: 500, Active: true},
				{Name: "Highlight Reel", Rate: "350.00", RateType: "flat", Active: true},
				{Name: "Raw Footage Delivery", Rate: "100.00", RateType: "flat", Active: false},
			},
		},
		{
			Category: "Wedding Crew", Mode: "wedding",
			Items: []itemSeed{
				{Name: "Lead Photographer", Rate: "220.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 3, Active: true},
				{Name: "Second Shooter", Rate: "140.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 4, Active: true},
				{Name: "Ceremony Videographer", Rate: "200.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 2, EventType: "ceremony", Active: true},
				{Name: "Reception Coverage", Rate: "175.00", RateType: "per_hour", RateUnit: "hr", MaxQuantity: 2, EventType: "reception", Active: true},
			},
		},
		{
			Category: "Wedding Extras", Mode: "wedding",
			Items: []itemSeed{
				{Name: "Engagement Session", Rate: "450.00", RateType: "flat", Active: true},
				{Name: "Wedding Album", Rate: "85.00", RateType: "per_unit", MaxQuantity: 20, Active: true},
				{Name: "Same-day Edit", Rate: "600.00", RateType: "flat", EventType: "reception", Active: true},
			},
		},
	}

	log.Println("Seeding catalog...")
	for pos, group := range catalog {
		categoryID, err := q.InsertCategory(ctx, group.Category, group.Mode, int32(pos))
		if err != nil {
			log.Printf("Failed to seed category %s: %v", group.Category, err)
			continue
		}
		for itemPos, item := range group.Items {
			rate, err := decimal.NewFromString(item.Rate)
			if err != nil {
				log.Printf("Bad rate for item %s: %v", item.Name, err)
				continue
			}
			params := repo.InsertItemParams{
				CategoryID: categoryID,
				Name:       item.Name,
				Rate:       rate,
				RateType:   item.RateType,
				Position:   int32(itemPos),
				Active:     item.Active,
			}
			if item.RateUnit != "" {
				unit := item.RateUnit
				params.RateUnit = &unit
			}
			if item.MaxQuantity > 0 {
				max := item.MaxQuantity
				params.MaxQuantity = &max
			}
			if item.EventType != "" {
				event := item.EventType
				params.EventType = &event
			}
			if _, err := q.InsertItem(ctx, params); err != nil {
				log.Printf("Failed to seed item %s: %v", item.Name, err)
			}
		}
	}
}

func seedTiers(ctx context.Context, q *repo.Queries) {
	tiers := []struct {
		Mode     string
		MinHours string
		Percent  string
	}{
		{"general", "0", "0"},
		{"general", "5", "10"},
		{"general", "10", "15"},
		{"wedding", "0", "0"},
		{"wedding", "6", "5"},
		{"wedding", "10", "12"},
	}

	log.Println("Seeding discount tiers...")
	for _, tier := range tiers {
		minHours := decimal.RequireFromString(tier.MinHours)
		percent := decimal.RequireFromString(tier.Percent)
		if _, err := q.InsertTier(ctx, tier.Mode, minHours, percent); err != nil {
			log.Printf("Failed to seed tier %s/%s: %v", tier.Mode, tier.MinHours, err)
		}
	}
}
