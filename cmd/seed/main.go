package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ingresso-platform/internal/config"
	"ingresso-platform/internal/database"
	"ingresso-platform/internal/models"
	"ingresso-platform/internal/repositories"
	"ingresso-platform/internal/utils"
)

// Seeds a demo organizer, a buyer and one event with two ticket types.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketTypeRepo := repositories.NewTicketTypeRepository(db.DB)

	organizer, err := seedUser(ctx, userRepo, &models.User{
		Name:      "Produtora Aurora",
		TaxID:     "11222333000181",
		Email:     "produtora@example.com",
		Organizer: true,
	})
	if err != nil {
		log.Fatalf("Failed to seed organizer: %v", err)
	}

	if _, err := seedUser(ctx, userRepo, &models.User{
		Name:  "Maria Silva",
		TaxID: "52998224725",
		Email: "maria@example.com",
	}); err != nil {
		log.Fatalf("Failed to seed buyer: %v", err)
	}

	event := &models.Event{
		OrganizerID: organizer.ID,
		Title:       "Festival de Inverno",
		Description: "Three days of music by the mountains.",
		Category:    "music",
		State:       "SP",
		City:        "Campos do Jordao",
		Venue:       "Parque da Cerveja",
		StartsAt:    time.Now().AddDate(0, 2, 0),
	}
	if err := eventRepo.Create(ctx, event); err != nil {
		log.Fatalf("Failed to seed event: %v", err)
	}

	ticketTypes := []*models.TicketType{
		{EventID: event.ID, Name: "Pista", PriceCents: 12000, Available: 500, PerIdentityLimit: 4},
		{EventID: event.ID, Name: "VIP", PriceCents: 35000, Available: 50, PerIdentityLimit: 2},
	}
	for _, tt := range ticketTypes {
		if err := ticketTypeRepo.Create(ctx, tt); err != nil {
			log.Fatalf("Failed to seed ticket type %s: %v", tt.Name, err)
		}
	}

	fmt.Printf("Seeded event %d with %d ticket types\n", event.ID, len(ticketTypes))
	fmt.Println("Accounts use password 'password123'")
}

func seedUser(ctx context.Context, repo *repositories.UserRepository, user *models.User) (*models.User, error) {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			return repo.GetByEmail(ctx, user.Email)
		}
		return nil, err
	}
	return user, nil
}
