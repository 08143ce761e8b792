package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/config"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/database"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

// Provisions a booking agent account. Agents have no self-registration
// endpoint; counter accounts are created by an operator with database access.
func main() {
	username := flag.String("username", "", "agent login username (required)")
	fullName := flag.String("full-name", "", "agent display name")
	password := flag.String("password", "", "agent password (or set AGENT_PASSWORD)")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		log.Fatal("username is required")
	}
	if *password == "" {
		*password = os.Getenv("AGENT_PASSWORD")
	}
	if *password == "" {
		log.Fatal("password is required (use -password or AGENT_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	agentRepo := database.NewAgentRepository(db)
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	agentService := services.NewAgentService(agentRepo, jwtService, cfg.Security.BcryptCost, logger)

	agent, err := agentService.CreateAgent(*username, *password, *fullName)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	fmt.Printf("Agent created: %s (id %s)\n", agent.Username, agent.ID)
}
