package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	users []dom.User
}

func (n *recordingNotifier) SendWelcome(_ context.Context, u dom.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, u)
}

func (n *recordingNotifier) sent() []dom.User {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dom.User(nil), n.users...)
}

type fixture struct {
	todos    *TodoService
	users    *UserService
	notifier *recordingNotifier
	userRepo *repo.SQLiteUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := repo.NewSQLiteUserRepo(db)
	n := &recordingNotifier{}
	return &fixture{
		todos:    NewTodoService(repo.NewSQLiteTodoRepo(db), nil).WithClock(func() time.Time { return testNow }),
		users:    NewUserService(userRepo, n).WithHashCost(bcrypt.MinCost),
		notifier: n,
		userRepo: userRepo,
	}
}

func (f *fixture) newUser(t *testing.T, email string) dom.User {
	t.Helper()
	u, err := f.userRepo.Create(context.Background(), dom.User{
		Name:         "owner",
		Email:        email,
		Token:        "tok-" + email,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func timePtr(t time.Time) *time.Time { return &t }
