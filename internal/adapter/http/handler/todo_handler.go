package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "todoservice/internal/adapter/http/helper"
	. "todoservice/internal/adapter/http/validation"
	"todoservice/internal/core/domain"
	"todoservice/internal/core/model/request"
	"todoservice/internal/core/model/response"
	"todoservice/internal/core/port"
	"todoservice/internal/core/util"
)

const todoNotFoundMessage = "Todo not found"

type TodoHandler struct {
	svc    port.TodoService
	logger *otelzap.Logger
}

func NewTodoHandler(svc port.TodoService, logger *otelzap.Logger) *TodoHandler {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToStruct[request.CreateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validate(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Create(ctx, params.Title)

	if err != nil {
		t.logger.Ctx(ctx).Error("Failed to create todo", zap.Error(err))
		SendInternalError(c, "Error creating todo")
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("todo.id", todo.ID))

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) ListTodos(c *gin.Context) {
	ctx := c.Request.Context()

	todos, err := t.svc.List(ctx)

	if err != nil {
		t.logger.Ctx(ctx).Error("Failed to list todos", zap.Error(err))
		SendInternalError(c, "Error getting todos")
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("todo.count", len(todos)))

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := todoID(c)

	if !ok {
		return
	}

	todo, err := t.svc.Get(ctx, id)

	if err != nil {
		t.handleError(c, "Error getting todo", err)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := todoID(c)

	if !ok {
		return
	}

	params, err := util.ParamsToStruct[request.UpdateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validate(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Update(ctx, id, domain.TodoPatch{
		Title:     params.Title,
		Completed: params.Completed,
	})

	if err != nil {
		t.handleError(c, "Error updating todo", err)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := todoID(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(ctx, id); err != nil {
		t.handleError(c, "Error deleting todo", err)
		return
	}

	c.JSON(http.StatusOK, response.MessageResponse{Message: "Todo deleted"})
}

func (t *TodoHandler) handleError(c *gin.Context, message string, err error) {
	if errors.Is(err, domain.ErrTodoNotFound) {
		SendNotFoundError(c, todoNotFoundMessage)
		return
	}

	t.logger.Ctx(c.Request.Context()).Error(message, zap.Error(err))
	SendInternalError(c, message)
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil {
		SendBadRequestError(c, "id", "id must be an integer")
		return 0, false
	}

	trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.Int64("todo.id", id))

	return id, true
}
