package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"communishare-be/internal/config"
	"communishare-be/internal/models"
	"communishare-be/internal/store"
	"communishare-be/internal/store/memstore"
	"communishare-be/internal/store/mongostore"
	"communishare-be/internal/store/pgstore"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Printf("Warning: Failed to load YAML config: %v", err)
	}
	cfg := config.GetConfig()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	ctx := context.Background()
	defer st.Close(ctx)

	fmt.Println("Connected to store successfully")

	now := time.Now().UTC()

	categories := []models.Category{
		{ID: "1", Name: "Streaming", Icon: "play-circle", CreatedBy: "system", CreatedAt: now},
		{ID: "2", Name: "Software", Icon: "code", CreatedBy: "system", CreatedAt: now},
		{ID: "3", Name: "Education", Icon: "book-open", CreatedBy: "system", CreatedAt: now},
		{ID: "4", Name: "Tools", Icon: "tool", CreatedBy: "system", CreatedAt: now},
	}

	groups := []models.Group{
		{ID: "1", Name: "Netflix Premium", Description: "Share Netflix Premium subscription", CategoryID: "1", CategoryName: "Streaming", IsPremium: true, Price: "₹499/month", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "2", Name: "Spotify Family", Description: "Spotify Family plan sharing", CategoryID: "1", CategoryName: "Streaming", IsPremium: false, Price: "Free", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "3", Name: "Adobe CC Suite", Description: "Adobe Creative Cloud tools", CategoryID: "2", CategoryName: "Software", IsPremium: true, Price: "$9.99/month", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "4", Name: "GitHub Pro", Description: "GitHub Pro features sharing", CategoryID: "2", CategoryName: "Software", IsPremium: false, Price: "Free", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "5", Name: "Coursera Plus", Description: "Coursera subscription sharing", CategoryID: "3", CategoryName: "Education", IsPremium: true, Price: "₹799/month", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "6", Name: "Udemy Courses", Description: "Free course recommendations", CategoryID: "3", CategoryName: "Education", IsPremium: false, Price: "Free", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "7", Name: "Notion Plus", Description: "Notion workspace sharing", CategoryID: "4", CategoryName: "Tools", IsPremium: true, Price: "$4.99/month", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
		{ID: "8", Name: "Canva Pro", Description: "Canva Pro team access", CategoryID: "4", CategoryName: "Tools", IsPremium: true, Price: "₹299/month", AdminID: "admin1", AdminName: "Admin", CreatedBy: "system"},
	}

	for _, category := range categories {
		doc, err := store.Encode(category)
		if err != nil {
			log.Printf("Error encoding category %s: %v", category.Name, err)
			continue
		}
		if err := st.SetDocument(ctx, store.CollectionCategories, category.ID, doc); err != nil {
			log.Printf("Error seeding category %s: %v", category.Name, err)
			continue
		}
		fmt.Printf("Seeded category %s\n", category.Name)
	}

	for _, group := range groups {
		// Seeded groups start empty; memberCount fills in as users join.
		group.MemberCount = 0
		group.CreatedAt = now
		group.UpdatedAt = now

		doc, err := store.Encode(group)
		if err != nil {
			log.Printf("Error encoding group %s: %v", group.Name, err)
			continue
		}
		if err := st.SetDocument(ctx, store.CollectionGroups, group.ID, doc); err != nil {
			log.Printf("Error seeding group %s: %v", group.Name, err)
			continue
		}
		fmt.Printf("Seeded group %s (premium=%t, price=%s)\n", group.Name, group.IsPremium, group.Price)
	}

	fmt.Println("Catalog seeding completed!")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memstore.Open(cfg.Storage.SnapshotPath)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongostore.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
	case "postgres":
		return pgstore.Open(pgstore.Config{
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			Name:     cfg.Storage.Postgres.Name,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
