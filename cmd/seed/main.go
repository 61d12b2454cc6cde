package main

import (
	"context"
	"log"
	"os"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/projects"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().UTC()
	samples := []projects.Project{
		{
			Title:           "Portfolio Backend",
			Description:     "REST API behind this site: projects, uploads and admin sessions.",
			LongDescription: "Go service exposing the project gallery, image storage and the admin panel session flow, backed by MongoDB and Redis.",
			Image:           "https://placehold.co/800x450/png?text=Portfolio+Backend",
			Technologies:    []string{"Go", "MongoDB", "Redis", "Docker"},
			Category:        projects.CategoryBackEnd,
			RepositoryURL:   "https://github.com/VirosMs/portfolio-backend",
			Featured:        true,
			Order:           1,
		},
		{
			Title:           "Expense Tracker",
			Description:     "Personal finance tracker with budgets and monthly reports.",
			LongDescription: "Spring Boot API with a React front end. Tracks expenses per category, renders monthly charts and exports CSV reports.",
			Image:           "https://placehold.co/800x450/png?text=Expense+Tracker",
			Technologies:    []string{"Java", "Spring Boot", "PostgreSQL", "React"},
			Category:        projects.CategoryFullStack,
			RepositoryURL:   "https://github.com/VirosMs/expense-tracker",
			LiveURL:         "https://expenses.virosms.com",
			Featured:        true,
			Order:           2,
		},
		{
			Title:           "Trail Companion",
			Description:     "Offline-first hiking log for Android.",
			LongDescription: "Kotlin app recording routes with GPS, elevation profiles and photo waypoints. Syncs when a connection returns.",
			Image:           "https://placehold.co/800x450/png?text=Trail+Companion",
			Technologies:    []string{"Kotlin", "Android", "SQLite"},
			Category:        projects.CategoryMobile,
			RepositoryURL:   "https://github.com/VirosMs/trail-companion",
			Featured:        false,
			Order:           3,
		},
	}

	for _, p := range samples {
		filter := bson.M{"title": p.Title}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":              primitive.NewObjectID().Hex(),
				"title":            p.Title,
				"description":      p.Description,
				"long_description": p.LongDescription,
				"image":            p.Image,
				"technologies":     p.Technologies,
				"category":         p.Category,
				"repository_url":   p.RepositoryURL,
				"live_url":         p.LiveURL,
				"featured":         p.Featured,
				"order":            p.Order,
				"created_at":       now,
				"updated_at":       now,
			},
		}
		if _, err := cols.Projects.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", p.Title, err)
		}
	}

	email := envOrDefault("ADMIN_EMAIL", "")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("seed admin: ADMIN_EMAIL or ADMIN_PASSWORD missing, skipping")
	} else if err := seedAdminUser(ctx, cols, email, password); err != nil {
		log.Fatalf("seed admin error: %v", err)
	}

	log.Println("seed completed")
}

func seedAdminUser(ctx context.Context, cols *db.Collections, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"password_hash": hash,
			"role":          "admin",
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"email":      email,
			"created_at": now,
		},
	}
	_, err = cols.AdminUsers.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
