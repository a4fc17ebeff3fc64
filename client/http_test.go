package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"taskdeck/internal/server"
	"taskdeck/internal/server/handler"
	"taskdeck/internal/service"
	"taskdeck/internal/store/memory"
	"taskdeck/todo"

	. "github.com/onsi/gomega"
)

// newTestServer stands up the real API over the in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	authService := service.NewAuthService(memory.NewUserRepository(), service.NewChallengeService())
	todoService := service.NewTodoService(memory.NewTodoRepository())

	router := server.SetupRouterForTests(server.Handlers{
		Auth: handler.NewAuthHandler(authService, nil),
		Todo: handler.NewTodoHandler(todoService, nil, nil),
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts
}

func newHTTPSession(t *testing.T) (*HTTPBackend, *Session, *TodoStore) {
	t.Helper()

	backend, err := NewHTTPBackend(newTestServer(t).URL)
	Expect(err).ToNot(HaveOccurred())

	session := NewSession(backend)

	return backend, session, NewTodoStore(backend, session)
}

func TestHTTPBackendSignupLoginFlow(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, session, _ := newHTTPSession(t)

	Expect(session.StartSignup(ctx, "alice").Success).To(BeTrue())

	challenge := session.Challenge()
	Expect(challenge).ToNot(BeNil())

	result := session.CompleteSignup(ctx, "secret123", challenge.Num1*challenge.Num2)

	Expect(result.Success).To(BeTrue())
	Expect(session.IsLoggedIn()).To(BeTrue())
	Expect(session.Username()).To(Equal("alice"))

	// The cookie session survives a fresh status check.
	Expect(session.CheckLoginStatus(ctx).Success).To(BeTrue())

	Expect(session.Logout(ctx).Success).To(BeTrue())
	Expect(session.CheckLoginStatus(ctx).Success).To(BeFalse())
}

func TestHTTPBackendWrongChallengeAnswer(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, session, _ := newHTTPSession(t)

	Expect(session.StartSignup(ctx, "alice").Success).To(BeTrue())

	challenge := *session.Challenge()
	result := session.CompleteSignup(ctx, "secret123", challenge.Num1*challenge.Num2+1)

	Expect(result.Success).To(BeFalse())
	Expect(result.Error).To(Equal("Challenge failed or expired."))
	Expect(session.State()).To(Equal(StateAwaitingCredentials))

	Expect(session.StartSignup(ctx, "alice").Success).To(BeTrue())
	Expect(session.Challenge().ID).ToNot(Equal(challenge.ID))
}

func TestHTTPBackendLoginWithRawPasswordField(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, session, _ := newHTTPSession(t)

	Expect(session.StartSignup(ctx, "alice").Success).To(BeTrue())
	challenge := session.Challenge()
	Expect(session.CompleteSignup(ctx, "secret123", challenge.Num1*challenge.Num2).Success).To(BeTrue())
	Expect(session.Logout(ctx).Success).To(BeTrue())

	Expect(session.Login(ctx, "alice", "secret123").Success).To(BeTrue())
	Expect(session.Username()).To(Equal("alice"))

	Expect(session.Logout(ctx).Success).To(BeTrue())

	failed := session.Login(ctx, "alice", "wrong")
	Expect(failed.Success).To(BeFalse())
	Expect(failed.Error).To(Equal("Invalid credentials."))
}

func TestHTTPBackendTodoCRUD(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	backend, session, store := newHTTPSession(t)

	Expect(session.StartSignup(ctx, "alice").Success).To(BeTrue())
	challenge := session.Challenge()
	Expect(session.CompleteSignup(ctx, "secret123", challenge.Num1*challenge.Num2).Success).To(BeTrue())

	added := store.Add(ctx, todo.Todo{Title: "Buy milk", Priority: todo.PriorityMedium})

	Expect(added.Success).To(BeTrue())
	Expect(added.Todo.ID).ToNot(BeEmpty())
	Expect(added.Todo.Status).To(Equal(todo.StatusActive))

	toggled := store.ToggleStatus(ctx, added.Todo.ID)
	Expect(toggled.Success).To(BeTrue())
	Expect(toggled.Todo.Status).To(Equal(todo.StatusCompleted))

	Expect(store.List(ctx).Success).To(BeTrue())
	Expect(store.Todos()).To(HaveLen(1))

	dashboard := NewDashboard(backend)
	stats, err := dashboard.Fetch(ctx)
	Expect(err).ToNot(HaveOccurred())
	Expect(stats.CompletedCount).To(Equal(1))
	Expect(stats.CompletionRate).To(Equal(100))

	Expect(store.Remove(ctx, added.Todo.ID).Success).To(BeTrue())
	Expect(store.Todos()).To(BeEmpty())
}
