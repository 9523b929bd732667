package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nepx/backend/internal/models"
	"github.com/nepx/backend/internal/storage"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidRole     = errors.New("invalid role")
)

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserService struct {
	mu      sync.RWMutex
	users   map[string]*userRecord
	byEmail map[string]string // lower-cased email -> userID
	order   []string          // registration order
	store   *storage.JSONFile[[]userRecord]
	cost    int
}

func NewUserService() *UserService {
	return &UserService{
		users:   make(map[string]*userRecord),
		byEmail: make(map[string]string),
		cost:    bcrypt.DefaultCost,
	}
}

// NewPersistentUserService mirrors accounts to users.json in dataDir.
func NewPersistentUserService(dataDir string) (*UserService, error) {
	store, err := storage.NewJSONFile[[]userRecord](dataDir, "users.json")
	if err != nil {
		return nil, err
	}
	records, _, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	s := NewUserService()
	s.store = store
	for i := range records {
		rec := records[i]
		s.insert(&rec)
	}
	return s, nil
}

// SetBcryptCost trades hashing strength for speed; tests use bcrypt.MinCost.
func (s *UserService) SetBcryptCost(cost int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cost = cost
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	return s.create(req.Name, req.Email, req.Password, models.RoleCustomer)
}

func (s *UserService) Login(req *models.LoginRequest) (*models.User, error) {
	s.mu.RLock()
	userID, exists := s.byEmail[normalizeEmail(req.Email)]
	var rec userRecord
	if exists {
		rec = *s.users[userID]
	}
	s.mu.RUnlock()

	if !exists {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return rec.toModel(), nil
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return rec.toModel(), nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted and keeps its password.
func (s *UserService) EnsureAdmin(email, password, name string) (*models.User, error) {
	s.mu.Lock()
	if userID, exists := s.byEmail[normalizeEmail(email)]; exists {
		rec := s.users[userID]
		prevRole := rec.Role
		rec.Role = models.RoleAdmin
		if err := s.persist(); err != nil {
			rec.Role = prevRole
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Unlock()
		return rec.toModel(), nil
	}
	s.mu.Unlock()

	if name == "" {
		name = "Administrator"
	}
	return s.create(name, email, password, models.RoleAdmin)
}

// SetRole changes the role of an account. Tokens already issued keep the
// role they were signed with until they expire.
func (s *UserService) SetRole(id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	prevRole := rec.Role
	rec.Role = role
	if err := s.persist(); err != nil {
		rec.Role = prevRole
		return nil, err
	}
	return rec.toModel(), nil
}

// Search matches name or email, ignoring case, in registration order. An
// empty query lists every account.
func (s *UserService) Search(query string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.User, 0)
	for _, id := range s.order {
		rec := s.users[id]
		if strings.Contains(strings.ToLower(rec.Name), q) || strings.Contains(strings.ToLower(rec.Email), q) {
			out = append(out, *rec.toModel())
		}
	}
	return out
}

// Delete removes an account. Its email becomes available again.
func (s *UserService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	prevOrder := slices.Clone(s.order)
	s.remove(id)
	if err := s.persist(); err != nil {
		s.users[id] = rec
		s.byEmail[normalizeEmail(rec.Email)] = id
		s.order = prevOrder
		return err
	}
	return nil
}

func (s *UserService) create(name, email, password, role string) (*models.User, error) {
	s.mu.RLock()
	cost := s.cost
	s.mu.RUnlock()

	// Hash outside the lock; bcrypt is deliberately slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, exists := s.byEmail[key]; exists {
		return nil, ErrEmailExists
	}

	rec := &userRecord{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	s.insert(rec)
	if err := s.persist(); err != nil {
		s.remove(rec.ID)
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *UserService) insert(rec *userRecord) {
	s.users[rec.ID] = rec
	s.byEmail[normalizeEmail(rec.Email)] = rec.ID
	s.order = append(s.order, rec.ID)
}

func (s *UserService) remove(id string) {
	rec, ok := s.users[id]
	if !ok {
		return
	}
	delete(s.users, id)
	delete(s.byEmail, normalizeEmail(rec.Email))
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *UserService) persist() error {
	if s.store == nil {
		return nil
	}
	records := make([]userRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, *s.users[id])
	}
	if err := s.store.Save(records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
