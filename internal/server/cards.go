package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"taskboard/internal/database/dto"
	"taskboard/internal/database/models"
)

func (s *FiberServer) createCard(c *fiber.Ctx) error {
	card := new(models.Card)
	if err := c.BodyParser(card); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "CADASTRO DE CARD", err, "Falha ao cadastrar card")
	}

	now := models.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	err := s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		return s.cards.Create(ctx, tx, card)
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "CADASTRO DE CARD", err, "Falha ao cadastrar card")
	}

	// Re-read after commit so the response carries the owner's public fields.
	if full, err := s.cards.GetByID(c.Context(), card.CardID); err == nil && full != nil {
		card = full
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// searchCards always returns all three status buckets, whatever the caller
// asked for; only the owner filter is taken from the query string.
func (s *FiberServer) searchCards(c *fiber.Ctx) error {
	userID := int64(c.QueryInt("userId", 0))

	buckets := dto.CardBuckets{}
	var err error
	if buckets.ToDoCards, err = s.cards.Search(c.Context(), userID, models.StatusToDo); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "PESQUISA DE CARDS", err, "Falha ao pesquisar cards")
	}
	if buckets.DoingCards, err = s.cards.Search(c.Context(), userID, models.StatusDoing); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "PESQUISA DE CARDS", err, "Falha ao pesquisar cards")
	}
	if buckets.DoneCards, err = s.cards.Search(c.Context(), userID, models.StatusDone); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "PESQUISA DE CARDS", err, "Falha ao pesquisar cards")
	}
	return c.JSON(buckets)
}

func (s *FiberServer) findCardByID(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")

	card, err := s.cards.GetByID(c.Context(), int64(id))
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "PESQUISA DE CARD POR ID", err, "Falha ao pesquisar card")
	}
	if card == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"CARDS", "PESQUISA DE CARD POR ID", nil, "Card nao encontrado")
	}
	return c.JSON(card)
}

func (s *FiberServer) updateCard(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")

	card := new(models.Card)
	if err := c.BodyParser(card); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "ATUALIZACAO DE CARD", err, "Falha ao atualizar card")
	}
	card.UpdatedAt = models.Now()

	var updated *models.Card
	err := s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		updated, txErr = s.cards.Update(ctx, tx, int64(id), card)
		return txErr
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "ATUALIZACAO DE CARD", err, "Falha ao atualizar card")
	}
	if updated == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"CARDS", "ATUALIZACAO DE CARD", nil, "Card nao encontrado")
	}
	return c.JSON(updated)
}

func (s *FiberServer) deleteCard(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")

	var deleted *models.Card
	err := s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		deleted, txErr = s.cards.Delete(ctx, tx, int64(id))
		return txErr
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "EXCLUSAO DE CARD", err, "Falha ao deletar card")
	}
	if deleted == nil {
		return s.errorResponse(c, fiber.StatusNotFound,
			"CARDS", "EXCLUSAO DE CARD", nil, "Card nao encontrado")
	}
	return c.JSON(deleted)
}

func (s *FiberServer) deleteAllCards(c *fiber.Ctx) error {
	err := s.db.RunInTx(c.Context(), func(ctx context.Context, tx bun.Tx) error {
		return s.cards.DeleteAll(ctx, tx)
	})
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "EXCLUSAO DE CARDS", err, "Falha ao deletar cards")
	}
	return c.JSON("Cards deletados com sucesso")
}

// countCards folds the grouped count into an explicit per-status report.
// Statuses absent from the grouped result stay zero, and the total sums every
// status the query returned.
func (s *FiberServer) countCards(c *fiber.Ctx) error {
	userID := int64(c.QueryInt("userId", 0))

	rows, err := s.cards.CountByStatus(c.Context(), userID)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError,
			"CARDS", "CONTAGEM DE CARDS", err, "Falha ao contar cards")
	}

	report := dto.CardCountReport{}
	for _, row := range rows {
		switch row.Status {
		case models.StatusToDo:
			report.ToDo = row.Count
		case models.StatusDoing:
			report.Doing = row.Count
		case models.StatusDone:
			report.Done = row.Count
		}
		report.Total += row.Count
	}
	return c.JSON(report)
}
