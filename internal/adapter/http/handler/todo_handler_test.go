package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "todoservice/pkg/test"

	"todoservice/internal/adapter/cache/memory"
	"todoservice/internal/adapter/database"
	apphttp "todoservice/internal/adapter/http"
	"todoservice/internal/config"
	"todoservice/internal/core/domain"
	"todoservice/internal/core/model/response"
	"todoservice/internal/core/port"
	"todoservice/internal/core/telemetry"
)

type TodoHandlerSuite struct {
	suite.Suite
	DB       *database.DB
	TodoRepo port.TodoRepository
	Router   *gin.Engine
}

var ctx = context.Background()

func newTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "todoservice-test", Environment: "test"},
		HTTP: config.HTTPConfig{
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Cache: config.CacheConfig{Driver: "memory", TTL: time.Minute},
	}
}

func newTestRouter(db *database.DB) (*gin.Engine, *apphttp.Container) {
	gin.SetMode(gin.TestMode)

	cfg := newTestConfig()
	container := apphttp.NewContainer(db, memory.NewCache(time.Minute, time.Minute), cfg.Cache, telemetry.NewNoOpProbe(), nil)

	return apphttp.NewRouter(container, cfg, nil, nil), container
}

func (s *TodoHandlerSuite) SetupTest() {
	s.DB = InitTestDB()

	router, container := newTestRouter(s.DB)

	s.Router = router
	s.TodoRepo = container.TodoRepo
}

func (s *TodoHandlerSuite) TearDownTest() {
	s.DB.Close()
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	return doRequest(s.Router, method, path, body)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var data T
	json.Unmarshal(rr.Body.Bytes(), &data)

	return data
}

func (s *TodoHandlerSuite) createTodo(title string) domain.Todo {
	todo, _ := s.TodoRepo.Create(ctx, title)
	return todo
}

func (s *TodoHandlerSuite) TestCreateTodo() {
	rr := s.request("POST", "/todos", `{"title": "Buy milk"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	todo := decode[response.TodoResponse](rr)

	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Title).To(Equal("Buy milk"))
	Expect(todo.Completed).To(BeFalse())
}

func (s *TodoHandlerSuite) TestCreateTodoValidationError() {
	rr := s.request("POST", "/todos", `{}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	errorResponse := decode[response.ErrorResponse](rr)

	Expect(errorResponse.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errorResponse.Error.Errors).To(ContainElement(HaveField("Field", "title")))
}

func (s *TodoHandlerSuite) TestCreateTodoLongTitle() {
	title := strings.Repeat("a", 1000)

	rr := s.request("POST", "/todos", fmt.Sprintf(`{"title": %q}`, title))

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.TodoResponse](rr).Title).To(Equal(title))
}

func (s *TodoHandlerSuite) TestCreateTodoMalformedJSON() {
	rr := s.request("POST", "/todos", `{"title": `)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Error.Code).To(Equal("BAD_REQUEST"))
}

func (s *TodoHandlerSuite) TestListTodosEmpty() {
	rr := s.request("GET", "/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(strings.TrimSpace(rr.Body.String())).To(Equal("[]"))
}

func (s *TodoHandlerSuite) TestListTodosWithData() {
	first := s.createTodo("one")
	second := s.createTodo("two")

	rr := s.request("GET", "/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	todos := decode[[]response.TodoResponse](rr)

	Expect(todos).To(ConsistOf(
		response.NewTodoResponse(first),
		response.NewTodoResponse(second),
	))
}

func (s *TodoHandlerSuite) TestListTodosReflectsMutations() {
	s.request("GET", "/todos", "")
	s.request("POST", "/todos", `{"title": "after cache"}`)

	todos := decode[[]response.TodoResponse](s.request("GET", "/todos", ""))

	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Title).To(Equal("after cache"))
}

func (s *TodoHandlerSuite) TestTrailingSlashCollectionFromBrowserOrigin() {
	send := func(method, body string) *httptest.ResponseRecorder {
		var reader io.Reader

		if body != "" {
			reader = strings.NewReader(body)
		}

		req, _ := http.NewRequest(method, "/todos/", reader)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "http://localhost:3000")

		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		return rr
	}

	rr := send("POST", `{"title": "From the frontend"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Location")).To(BeEmpty())
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))

	rr = send("GET", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	Expect(decode[[]response.TodoResponse](rr)).To(HaveLen(1))

	rr = send("OPTIONS", "")

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
}

func (s *TodoHandlerSuite) TestGetTodo() {
	todo := s.createTodo("Read book")

	rr := s.request("GET", fmt.Sprintf("/todos/%d", todo.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.TodoResponse](rr)).To(Equal(response.NewTodoResponse(todo)))
}

func (s *TodoHandlerSuite) TestGetTodoInvalidID() {
	rr := s.request("GET", "/todos/abc", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Error.Errors[0].Field).To(Equal("id"))
}

func (s *TodoHandlerSuite) TestUpdateTodoCompletedOnly() {
	todo := s.createTodo("Buy milk")

	rr := s.request("PUT", fmt.Sprintf("/todos/%d", todo.ID), `{"completed": true}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decode[response.TodoResponse](rr)

	Expect(updated.ID).To(Equal(todo.ID))
	Expect(updated.Title).To(Equal("Buy milk"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoHandlerSuite) TestUpdateTodoTitleOnly() {
	todo := s.createTodo("Walk dog")
	s.request("PUT", fmt.Sprintf("/todos/%d", todo.ID), `{"completed": true}`)

	rr := s.request("PUT", fmt.Sprintf("/todos/%d", todo.ID), `{"title": "Walk the dog", "completed": null}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decode[response.TodoResponse](rr)

	Expect(updated.Title).To(Equal("Walk the dog"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoHandlerSuite) TestUpdateTodoEmptyTitle() {
	todo := s.createTodo("Keep")

	rr := s.request("PUT", fmt.Sprintf("/todos/%d", todo.ID), `{"title": ""}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Error.Code).To(Equal("VALIDATION_ERROR"))

	stored, _ := s.TodoRepo.Get(ctx, todo.ID)
	Expect(stored.Title).To(Equal("Keep"))
}

func (s *TodoHandlerSuite) TestUpdateTodoNotFound() {
	existing := s.createTodo("Untouched")

	rr := s.request("PUT", "/todos/9999", `{"title": "x", "completed": true}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	errorResponse := decode[response.ErrorResponse](rr)

	Expect(errorResponse.Error.Code).To(Equal("NOT_FOUND"))
	Expect(errorResponse.Error.Errors[0].Message).To(Equal("Todo not found"))

	stored, _ := s.TodoRepo.Get(ctx, existing.ID)
	Expect(stored).To(Equal(existing))
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	todo := s.createTodo("Drop")

	rr := s.request("DELETE", fmt.Sprintf("/todos/%d", todo.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](rr).Message).To(Equal("Todo deleted"))

	rr = s.request("GET", fmt.Sprintf("/todos/%d", todo.ID), "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))

	rr = s.request("DELETE", fmt.Sprintf("/todos/%d", todo.ID), "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDeleteTodoNotFound() {
	existing := s.createTodo("Untouched")

	rr := s.request("DELETE", "/todos/9999", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	todos := decode[[]response.TodoResponse](s.request("GET", "/todos", ""))
	Expect(todos).To(ConsistOf(response.NewTodoResponse(existing)))
}

func (s *TodoHandlerSuite) TestHealth() {
	rr := s.request("GET", "/health", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.HealthResponse](rr).Status).To(Equal("ok"))

	s.DB.Close()

	rr = s.request("GET", "/health", "")

	Expect(rr.Code).To(Equal(http.StatusServiceUnavailable))
	Expect(decode[response.ErrorResponse](rr).Error.Code).To(Equal("SERVICE_UNAVAILABLE"))
}
