package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskdeck/internal/server/helper"
	"taskdeck/internal/server/middleware"
	"taskdeck/internal/service"
	"taskdeck/internal/store/memory"
	"taskdeck/pkg/auth"
	"taskdeck/todo"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TodoHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
	Token  string
}

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	todoService := service.NewTodoService(memory.NewTodoRepository())
	todoHandler := NewTodoHandler(todoService, nil, nil)

	router := gin.New()

	todos := router.Group("/api/todos")
	todos.Use(middleware.Session())
	{
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.PUT("/:id", todoHandler.Update)
		todos.DELETE("/:id", todoHandler.Delete)
		todos.POST("/reorder", todoHandler.Reorder)
		todos.GET("/dashboard/stats", todoHandler.Stats)
	}

	s.Router = router

	token, err := auth.CreateSessionToken(1)
	Expect(err).ToNot(HaveOccurred())
	s.Token = token
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.Token)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TodoHandlerSuite) createTodo(body string) todo.Todo {
	rr := s.request("POST", "/api/todos", body)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	var created todo.Todo
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &created)

	return created
}

func (s *TodoHandlerSuite) TestListRequiresSession() {
	req, _ := http.NewRequest("GET", "/api/todos", nil)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestListEmpty() {
	rr := s.request("GET", "/api/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var todos []todo.Todo
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &todos)

	Expect(todos).To(BeEmpty())
}

func (s *TodoHandlerSuite) TestCreateTodo() {
	created := s.createTodo(`{"title": "Buy milk", "priority": "high", "category": "errands"}`)

	Expect(created.ID).ToNot(BeEmpty())
	Expect(created.Title).To(Equal("Buy milk"))
	Expect(created.Priority).To(Equal(todo.PriorityHigh))
	Expect(created.Status).To(Equal(todo.StatusActive))
	Expect(created.OrderIndex).To(Equal(0))
}

func (s *TodoHandlerSuite) TestCreateValidationErrorsInRuleOrder() {
	longTitle := strings.Repeat("x", 201)

	rr := s.request("POST", "/api/todos", `{"title": "`+longTitle+`", "dueDate": "not-a-date", "priority": "urgent"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var data helper.ErrorResponse
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))

	messages := make([]string, 0, len(data.Error.Errors))
	for _, fieldError := range data.Error.Errors {
		messages = append(messages, fieldError.Message)
	}

	Expect(messages).To(Equal([]string{
		"Title must be less than 200 characters",
		"Invalid due date format",
		"Invalid priority level",
	}))
}

func (s *TodoHandlerSuite) TestUpdateTodo() {
	created := s.createTodo(`{"title": "Buy milk"}`)

	rr := s.request("PUT", "/api/todos/"+created.ID, `{"status": "completed"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var updated todo.Todo
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &updated)

	Expect(updated.Status).To(Equal(todo.StatusCompleted))
	Expect(updated.Title).To(Equal("Buy milk"))
}

func (s *TodoHandlerSuite) TestUpdateNotFound() {
	rr := s.request("PUT", "/api/todos/missing", `{"title": "ghost"}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	created := s.createTodo(`{"title": "Buy milk"}`)

	rr := s.request("DELETE", "/api/todos/"+created.ID, "")
	Expect(rr.Code).To(Equal(http.StatusNoContent))

	rr = s.request("DELETE", "/api/todos/"+created.ID, "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestReorder() {
	a := s.createTodo(`{"title": "a"}`)
	b := s.createTodo(`{"title": "b"}`)
	c := s.createTodo(`{"title": "c"}`)

	payload, _ := json.Marshal(gin.H{"ids": []string{c.ID, a.ID, b.ID}})

	rr := s.request("POST", "/api/todos/reorder", string(payload))
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.request("GET", "/api/todos", "")

	var todos []todo.Todo
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &todos)

	Expect(todos[0].Title).To(Equal("c"))
	Expect(todos[1].Title).To(Equal("a"))
	Expect(todos[2].Title).To(Equal("b"))
}

func (s *TodoHandlerSuite) TestStats() {
	s.createTodo(`{"title": "done 1", "status": "completed", "priority": "high"}`)
	s.createTodo(`{"title": "done 2", "status": "completed"}`)
	s.createTodo(`{"title": "done 3", "status": "completed"}`)
	s.createTodo(`{"title": "open", "priority": "low"}`)

	rr := s.request("GET", "/api/todos/dashboard/stats", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var stats todo.Stats
	raw, _ := io.ReadAll(rr.Body)
	json.Unmarshal(raw, &stats)

	Expect(stats.CompletedCount).To(Equal(3))
	Expect(stats.ActiveCount).To(Equal(1))
	Expect(stats.HighPriorityCount).To(Equal(1))
	Expect(stats.LowPriorityCount).To(Equal(1))
	Expect(stats.CompletionRate).To(Equal(75))
}
