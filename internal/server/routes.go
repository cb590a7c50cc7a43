package server

import (
	jwtware "github.com/gofiber/contrib/jwt"
)

// RegisterFiberRoutes declares the route table. Registration, login and
// password recovery are reachable without a token; everything after the JWT
// gate requires a valid bearer token. The trailing catch-all turns unmatched
// requests into a structured 404.
func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Get("/health", s.healthHandler)

	s.App.Post("/users/", s.createUser)
	s.App.Post("/users/login", s.login)
	s.App.Post("/users/recovery", s.recoverPassword)

	s.App.Use(jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(s.cfg.JWTSecret)},
		ErrorHandler: s.jwtError,
	}))

	s.App.Post("/cards/", s.createCard)
	s.App.Get("/cards/", s.searchCards)
	s.App.Get("/cards/tasks/count", s.countCards)
	s.App.Get("/cards/:id<int>", s.findCardByID)
	s.App.Put("/cards/:id<int>", s.updateCard)
	s.App.Delete("/cards/:id<int>", s.deleteCard)
	s.App.Delete("/cards/", s.deleteAllCards)

	s.App.Put("/users/:id<int>", s.updateUser)
	s.App.Get("/users/", s.searchUsers)
	s.App.Get("/users/tasks/count", s.countUsers)
	s.App.Get("/users/:id<int>", s.findUserByID)

	s.App.Use(s.routeNotFound)
}
