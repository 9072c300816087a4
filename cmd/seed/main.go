package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/user-management-service/config"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
)

type demoUser struct {
	first, last, email, city, country string
	role                              entity.UserRole
	status                            entity.UserStatus
}

var demoUsers = []demoUser{
	{"Ada", "Lovelace", "ada@example.com", "London", "UK", entity.RoleAdmin, entity.StatusActive},
	{"Grace", "Hopper", "grace@example.com", "New York", "USA", entity.RoleManager, entity.StatusActive},
	{"John", "Doe", "john@example.com", "Berlin", "Germany", entity.RoleUser, entity.StatusActive},
	{"Jane", "Roe", "jane@example.com", "Berlin", "Germany", entity.RoleUser, entity.StatusPending},
	{"Max", "Mustermann", "max@example.com", "Munich", "Germany", entity.RoleUser, entity.StatusSuspended},
	{"Sofia", "Rossi", "sofia@example.com", "Rome", "Italy", entity.RoleUser, entity.StatusInactive},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	inserted := 0
	for _, u := range demoUsers {
		res, err := db.Exec(`
			INSERT INTO users (first_name, last_name, email, city, country, role, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT DO NOTHING
		`, u.first, u.last, u.email, u.city, u.country, string(u.role), string(u.status))
		if err != nil {
			log.Fatalf("failed to seed %s: %v", u.email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
			fmt.Printf("seeded user: email=%s role=%s status=%s\n", u.email, u.role, u.status)
		}
	}
	fmt.Printf("seed complete: %d new, %d already present\n", inserted, len(demoUsers)-inserted)
}
