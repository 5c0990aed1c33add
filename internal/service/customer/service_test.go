package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"herbstore/internal/domain"
	tokenrepo "herbstore/internal/repository/token"
)

type stubCustomerRepo struct {
	byEmail map[string]*domain.Customer
	byID    map[string]*domain.Customer
	nextID  int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		byEmail: make(map[string]*domain.Customer),
		byID:    make(map[string]*domain.Customer),
	}
}

func (s *stubCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, ok := s.byEmail[c.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	s.nextID++
	c.ID = "cust-" + string(rune('0'+s.nextID))
	c.CreatedAt = time.Now()
	s.byEmail[c.Email] = &c
	s.byID[c.ID] = &c
	return &c, nil
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if c, ok := s.byEmail[email]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := s.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	if t, ok := s.tokens[token]; ok {
		return &t, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

func newTestService() (*Service, *stubCustomerRepo, *stubTokenRepo) {
	customers := newStubCustomerRepo()
	tokens := newStubTokenRepo()
	return New(customers, tokens), customers, tokens
}

func TestSignup_RejectsWeakPasswords(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []string{
		"short1A",     // below minimum length
		"alllowercase1", // no uppercase
		"ALLUPPERCASE1", // no lowercase
		"NoDigitsHere",  // no digit
	}
	for _, password := range cases {
		_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: password})
		if err == nil {
			t.Fatalf("password %q should have been rejected", password)
		}
	}
}

func TestSignup_NormalizesEmailAndHashesPassword(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	c, err := svc.Signup(ctx, SignupInput{
		Email:     "  Priya@Example.COM ",
		Password:  "Sunshine7",
		FirstName: "Priya",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if c.Email != "priya@example.com" {
		t.Fatalf("email not normalized: %q", c.Email)
	}
	if c.PasswordHash == "Sunshine7" || c.PasswordHash == "" {
		t.Fatalf("password stored in the clear or empty")
	}
	if _, ok := repo.byEmail["priya@example.com"]; !ok {
		t.Fatalf("customer not persisted")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLogin_IssuesTokens(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	c, access, refresh, err := svc.Login(ctx, "a@example.com", "Sunshine7")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if c == nil || access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected login result customer=%v access=%q refresh=%q", c, access, refresh)
	}
	if tokens.tokens[access].Kind != "access" || tokens.tokens[refresh].Kind != "refresh" {
		t.Fatalf("tokens persisted with wrong kinds")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "a@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "Sunshine7"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLookupByToken(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, access, refresh, err := svc.Login(ctx, "a@example.com", "Sunshine7")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := svc.LookupByToken(ctx, access)
	if err != nil || got.ID != created.ID {
		t.Fatalf("lookup by access token: got %v err %v", got, err)
	}

	// Refresh tokens must not authenticate requests.
	if _, err := svc.LookupByToken(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown token: expected ErrInvalidToken, got %v", err)
	}

	// Expired tokens are rejected and dropped from the store.
	expired := tokens.tokens[access]
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.tokens[access] = expired
	if _, err := svc.LookupByToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
	if _, ok := tokens.tokens[access]; ok {
		t.Fatalf("expired token not deleted")
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "Sunshine7"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, access, _, err := svc.Login(ctx, "a@example.com", "Sunshine7")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token still valid")
	}
}
