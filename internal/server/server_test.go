package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"taskboard/internal/config"
	"taskboard/internal/database/dto"
	"taskboard/internal/database/models"
	"taskboard/internal/database/repositories"
	"taskboard/internal/utils"
)

const testSecret = "test-secret"

// fakeDB satisfies database.Service without a real database. RunInTx hands
// the callback a zero transaction; the in-memory repositories ignore it.
type fakeDB struct{}

func (fakeDB) Bun() *bun.DB        { return nil }
func (fakeDB) Pool() *pgxpool.Pool { return nil }
func (fakeDB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}
func (fakeDB) Health(context.Context) map[string]string { return map[string]string{"status": "up"} }
func (fakeDB) Migrate() error                           { return nil }
func (fakeDB) Close() error                             { return nil }

type fakeCardRepo struct {
	mu     sync.Mutex
	nextID int64
	cards  map[int64]models.Card
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{nextID: 1, cards: make(map[int64]models.Card)}
}

func (r *fakeCardRepo) Create(_ context.Context, _ bun.IDB, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	card.CardID = r.nextID
	r.nextID++
	r.cards[card.CardID] = *card
	return nil
}

func (r *fakeCardRepo) Search(_ context.Context, userID int64, status string) ([]models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Card, 0)
	for _, card := range r.cards {
		if userID > 0 && card.UserID != userID {
			continue
		}
		if status != "" && status != models.StatusAll && card.Status != status {
			continue
		}
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out, nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, id int64) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

func (r *fakeCardRepo) GetByParameters(_ context.Context, filters []repositories.FieldFilter) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range r.cards {
		match := true
		for _, f := range filters {
			switch f.Field {
			case "card_id":
				match = match && card.CardID == f.Value.(int64)
			case "user_id":
				match = match && card.UserID == f.Value.(int64)
			case "status":
				match = match && card.Status == f.Value.(string)
			case "title":
				match = match && card.Title == f.Value.(string)
			default:
				match = false
			}
		}
		if match {
			c := card
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCardRepo) Update(_ context.Context, _ bun.IDB, id int64, card *models.Card) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	if card.UserID != 0 {
		existing.UserID = card.UserID
	}
	if card.Title != "" {
		existing.Title = card.Title
	}
	if card.Content != "" {
		existing.Content = card.Content
	}
	if card.Status != "" {
		existing.Status = card.Status
	}
	existing.UpdatedAt = card.UpdatedAt
	r.cards[id] = existing
	return &existing, nil
}

func (r *fakeCardRepo) Delete(_ context.Context, _ bun.IDB, id int64) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	delete(r.cards, id)
	return &card, nil
}

func (r *fakeCardRepo) DeleteAll(_ context.Context, _ bun.IDB) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = make(map[int64]models.Card)
	return nil
}

func (r *fakeCardRepo) CountByStatus(_ context.Context, userID int64) ([]dto.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus := make(map[string]int64)
	for _, card := range r.cards {
		if userID > 0 && card.UserID != userID {
			continue
		}
		byStatus[card.Status]++
	}
	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(statuses)))
	out := make([]dto.StatusCount, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, dto.StatusCount{Status: status, Count: byStatus[status]})
	}
	return out, nil
}

func (r *fakeCardRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, _ bun.IDB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UserID = r.nextID
	r.nextID++
	r.users[user.UserID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ bun.IDB, id int64, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if user.Name != "" {
		existing.Name = user.Name
	}
	if user.Email != "" {
		existing.Email = user.Email
	}
	existing.UpdatedAt = user.UpdatedAt
	r.users[id] = existing
	return &existing, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ bun.IDB, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.Password = hash
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type captureMailer struct {
	email string
	temp  string
}

func (m *captureMailer) SendPasswordRecovery(email, temp string) error {
	m.email = email
	m.temp = temp
	return nil
}

func newTestServer(cards repositories.CardRepository, users repositories.UserRepository, mail Mailer) *FiberServer {
	if mail == nil {
		mail = logMailer{}
	}
	s := &FiberServer{
		App:   fiber.New(),
		cfg:   &config.Config{JWTSecret: testSecret},
		db:    fakeDB{},
		cards: cards,
		users: users,
		mail:  mail,
	}
	s.RegisterFiberRoutes()
	return s
}

func authHeader(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": int64(7),
		"email":  "dev@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, auth string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedCard(t *testing.T, repo *fakeCardRepo, userID int64, status string) models.Card {
	t.Helper()
	now := models.Now()
	card := models.Card{
		UserID:    userID,
		Title:     "card",
		Content:   "content",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), nil, &card))
	return card
}

func seedUser(t *testing.T, repo *fakeUserRepo, name, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	now := models.Now()
	user := models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), nil, &user))
	return user
}
