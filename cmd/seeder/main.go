package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/database"
	"github.com/mauv0809/shuttle-draw/internal/draw"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "draw.db",
		"MIGRATIONS_DIR": "migrations",
	}
	for _, key := range []string{"DB_NAME", "MIGRATIONS_DIR", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var seedNames = []struct {
	name     string
	nickname string
	gender   draw.Gender
}{
	{"Kim Minjun", "Minjun", draw.Male},
	{"Lee Seojun", "", draw.Male},
	{"Park Doyun", "Smash", draw.Male},
	{"Choi Yejun", "", draw.Male},
	{"Jung Siwoo", "", draw.Male},
	{"Kang Hajun", "Drop", draw.Male},
	{"Cho Jiho", "", draw.Male},
	{"Yoon Juwon", "", draw.Male},
	{"Kim Seoyeon", "", draw.Female},
	{"Lee Jiwoo", "Net", draw.Female},
	{"Park Seoyun", "", draw.Female},
	{"Choi Jimin", "", draw.Female},
	{"Jung Haeun", "Clear", draw.Female},
	{"Kang Sua", "", draw.Female},
}

func main() {
	clearFirst := flag.Bool("clear", false, "Delete all members before seeding")
	flag.Parse()

	log.Info("Starting member seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	store := club.New(db)
	if *clearFirst {
		store.Clear()
		log.Info("Cleared members table")
	}

	members := make([]club.Member, 0, len(seedNames))
	for _, s := range seedNames {
		m := club.Member{ID: uuid.NewString(), Name: s.name, Gender: s.gender, Status: club.StatusActive}
		if s.nickname != "" {
			nick := s.nickname
			m.Nickname = &nick
		}
		members = append(members, m)
	}

	if err := store.UpsertMembers(members); err != nil {
		log.Fatalf("Failed to seed members: %s", err)
	}
	log.Info("Successfully seeded members", "count", len(members))
}
