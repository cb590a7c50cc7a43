package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/database/repositories"
)

type FiberServer struct {
	*fiber.App

	cfg   *config.Config
	db    database.Service
	cards repositories.CardRepository
	users repositories.UserRepository
	mail  Mailer
}

func New(cfg *config.Config, db database.Service) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: "taskboard",
			AppName:      "taskboard",
		}),
		cfg:   cfg,
		db:    db,
		cards: repositories.NewCardRepository(db.Bun()),
		users: repositories.NewUserRepository(db.Bun()),
		mail:  logMailer{},
	}
	server.App.Use(recover.New())
	server.App.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	server.App.Use(logger.New())
	return server
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	return c.JSON(s.db.Health(c.Context()))
}
