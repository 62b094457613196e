package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	. "todoservice/internal/adapter/http/helper"
	. "todoservice/internal/adapter/http/validation"
	"todoservice/internal/core/domain"
	"todoservice/internal/core/model/request"
	"todoservice/internal/core/model/response"
	"todoservice/internal/core/port"
	"todoservice/internal/core/util"
)

type UserHandler struct {
	svc    port.UserService
	logger *otelzap.Logger
}

func NewUserHandler(svc port.UserService, logger *otelzap.Logger) *UserHandler {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToStruct[request.CreateUserRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validate(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := h.svc.Create(ctx, params.Username, params.Email, params.Password)

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			SendConflictError(c, "email", "Email already registered")
		case errors.Is(err, util.ErrPasswordTooLong):
			SendBadRequestError(c, "password", err.Error())
		default:
			h.logger.Ctx(ctx).Error("Failed to create user", zap.Error(err))
			SendInternalError(c, "Error creating user")
		}

		return
	}

	c.JSON(http.StatusOK, response.NewUserResponse(user))
}
