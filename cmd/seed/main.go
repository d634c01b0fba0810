// Command main runs the database seeder for Parley.
package main

import (
	"flag"
	"log"

	"parley/internal/config"
	"parley/internal/database"
	"parley/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numChats := flag.Int("chats", 8, "Number of chats to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	numMessages := flag.Int("messages", 200, "Number of messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("Seeding users failed: %v", err)
	}
	chats, err := s.SeedChats(*numChats, users)
	if err != nil {
		log.Fatalf("Seeding chats failed: %v", err)
	}
	if err := s.SeedPosts(*numPosts, users, chats); err != nil {
		log.Fatalf("Seeding posts failed: %v", err)
	}
	if err := s.SeedMessages(*numMessages, users, chats); err != nil {
		log.Fatalf("Seeding messages failed: %v", err)
	}

	log.Printf("Seeded %d users, %d chats, %d posts, %d messages", len(users), len(chats), *numPosts, *numMessages)
}
