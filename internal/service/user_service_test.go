package service

import (
	"context"
	"testing"
	"time"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	svc    UserService
	repo   *stubUserRepo
	userID uuid.UUID
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	repo := newStubUserRepo()
	roleRepo := newStubRoleRepo()

	role := &model.Role{Name: "member", IsSystem: true}
	if err := roleRepo.Create(context.Background(), role); err != nil {
		t.Fatalf("seed role: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("hammer-time"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Username: "marisol",
		Email:    "marisol@example.com",
		Password: string(hash),
		Role:     "member",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return &userFixture{
		svc:    NewUserService(repo, roleRepo),
		repo:   repo,
		userID: user.ID,
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	f := newUserFixture(t)

	tokens, err := f.svc.Login(context.Background(), LoginUserRequest{
		Email:    "marisol@example.com",
		Password: "hammer-time",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// The access token must verify against the middleware's secret; a
	// mismatched signing key would lock every request out at the gate.
	parsed, err := jwt.Parse(tokens.Token, func(_ *jwt.Token) (interface{}, error) {
		return middleware.GetJWTSecret(), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify with the middleware secret: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if claims["sub"] != f.userID.String() {
		t.Errorf("sub claim = %v, want %s", claims["sub"], f.userID)
	}
	if claims["role"] != "member" {
		t.Errorf("role claim = %v, want member", claims["role"])
	}
}

func TestLogin_SweepsExpiredRefreshTokens(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	stale := &model.RefreshToken{
		UserID:    f.userID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := &model.RefreshToken{
		UserID:    f.userID,
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, rt := range []*model.RefreshToken{stale, live} {
		if err := f.repo.SaveRefreshToken(ctx, rt); err != nil {
			t.Fatalf("seed token: %v", err)
		}
	}

	tokens, err := f.svc.Login(ctx, LoginUserRequest{
		Email:    "marisol@example.com",
		Password: "hammer-time",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, ok := f.repo.tokens["stale-token"]; ok {
		t.Error("expired refresh token survived login")
	}
	if _, ok := f.repo.tokens["live-token"]; !ok {
		t.Error("live refresh token was swept")
	}
	if _, ok := f.repo.tokens[tokens.RefreshToken]; !ok {
		t.Error("newly issued refresh token not persisted")
	}
}

func TestRefresh_RejectsExpiredToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	stale := &model.RefreshToken{
		UserID:    f.userID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := f.repo.SaveRefreshToken(ctx, stale); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if _, err := f.svc.Refresh(ctx, "stale-token"); err == nil {
		t.Fatal("expired refresh token was accepted")
	}
	if _, ok := f.repo.tokens["stale-token"]; ok {
		t.Error("rejected token not deleted")
	}
}
