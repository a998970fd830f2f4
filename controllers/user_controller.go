package controllers

import (
	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/internal/error/response"
	"roomsense-http-service/models"
	"roomsense-http-service/services"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// UserController handles user account requests
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// UserRequest represents a user creation payload
type UserRequest struct {
	Username string `json:"username" binding:"required" example:"manager1"`
	Password string `json:"password" binding:"required" example:"changeme"`
	Role     string `json:"role" binding:"required" example:"manager"` // admin, manager, operator
}

// HandleUserFunc returns a gin handler for the given user method
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "createUser":
			controller.CreateUser()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

// GetUsers lists all user accounts
// @Summary List users
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /users [get]
func (c *UserController) GetUsers() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)

	users, err := userService.GetAllUsers()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, users)
}

// CreateUser creates a user account
// @Summary Create user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserRequest true "User"
// @Success 200 {object} models.User
// @Failure 400 {object} response.Response
// @Router /users [post]
func (c *UserController) CreateUser() {
	var req UserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	role := models.UserRole(req.Role)
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleOperator:
	default:
		response.ParamError(c.Ctx, "invalid role")
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.CreateUser(req.Username, req.Password, role)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, user)
}
