package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"taskboard/internal/database/dto"
	"taskboard/internal/database/models"
	"taskboard/internal/utils"
)

const tokenTTL = time.Hour * 72

func (s *FiberServer) createUser(c *fiber.Ctx) error {
	user := new(models.User)
	if err := c.BodyParser(user); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "CADASTRO DE USUARIO", err, "Falha ao cadastrar usuario")
	}

	hash, err := utils.HashPassword(user.Password)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "CADASTRO DE USUARIO", err, "Falha ao cadastrar usuario")
	}
	user.Password = hash

	now := models.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err = s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		return s.users.Create(ctx, tx, user)
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "CADASTRO DE USUARIO", err, "Falha ao cadastrar usuario")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *FiberServer) login(c *fiber.Ctx) error {
	credentials := dto.LoginCredentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest,
			"USERS", "LOGIN DE USUARIO", err, "Requisicao invalida")
	}

	user, err := s.users.GetByEmail(c.Context(), credentials.Email)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "LOGIN DE USUARIO", err, "Falha ao autenticar usuario")
	}
	if user == nil || !utils.CheckPasswordHash(credentials.Password, user.Password) {
		return s.errorResponse(c, fiber.StatusUnauthorized,
			"USERS", "LOGIN DE USUARIO", nil, "Usuario ou senha invalidos")
	}

	claims := jwt.MapClaims{
		"userId": user.UserID,
		"email":  user.Email,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "LOGIN DE USUARIO", err, "Falha ao autenticar usuario")
	}
	return c.JSON(fiber.Map{"token": t})
}

// recoverPassword resets the account to a temporary password and hands it to
// the mail collaborator. The response never reveals the password.
func (s *FiberServer) recoverPassword(c *fiber.Ctx) error {
	req := dto.RecoveryRequest{}
	if err := c.BodyParser(&req); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest,
			"USERS", "RECUPERACAO DE SENHA", err, "Requisicao invalida")
	}

	user, err := s.users.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "RECUPERACAO DE SENHA", err, "Falha ao recuperar senha")
	}
	if user == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"USERS", "RECUPERACAO DE SENHA", nil, "Usuario nao encontrado")
	}

	temp := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := utils.HashPassword(temp)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "RECUPERACAO DE SENHA", err, "Falha ao recuperar senha")
	}

	err = s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		return s.users.UpdatePassword(ctx, tx, user.UserID, hash)
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "RECUPERACAO DE SENHA", err, "Falha ao recuperar senha")
	}

	if err := s.mail.SendPasswordRecovery(user.Email, temp); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "RECUPERACAO DE SENHA", err, "Falha ao recuperar senha")
	}
	return c.JSON(fiber.Map{"message": "Senha temporaria enviada para o email cadastrado"})
}

func (s *FiberServer) updateUser(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")

	user := new(models.User)
	if err := c.BodyParser(user); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "ATUALIZACAO DE USUARIO", err, "Falha ao atualizar usuario")
	}
	user.UpdatedAt = models.Now()

	var updated *models.User
	err := s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		updated, txErr = s.users.Update(ctx, tx, int64(id), user)
		return txErr
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "ATUALIZACAO DE USUARIO", err, "Falha ao atualizar usuario")
	}
	if updated == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"USERS", "ATUALIZACAO DE USUARIO", nil, "Usuario nao encontrado")
	}
	return c.JSON(updated)
}

func (s *FiberServer) searchUsers(c *fiber.Ctx) error {
	users, err := s.users.GetAll(c.Context())
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "PESQUISA DE USUARIOS", err, "Falha ao pesquisar usuarios")
	}
	return c.JSON(users)
}

func (s *FiberServer) findUserByID(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")

	user, err := s.users.GetByID(c.Context(), int64(id))
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "PESQUISA DE USUARIO POR ID", err, "Falha ao pesquisar usuario")
	}
	if user == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"USERS", "PESQUISA DE USUARIO POR ID", nil, "Usuario nao encontrado")
	}
	return c.JSON(user)
}

func (s *FiberServer) countUsers(c *fiber.Ctx) error {
	total, err := s.users.Count(c.Context())
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"USERS", "CONTAGEM DE USUARIOS", err, "Falha ao contar usuarios")
	}
	return c.JSON(fiber.Map{"total": total})
}
