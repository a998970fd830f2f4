package controllers

import (
	"strconv"

	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/internal/error/response"
	"roomsense-http-service/models"
	"roomsense-http-service/services"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceActionController defines the action controller interface
type InterfaceActionController interface {
	GetActions()
	GetAction()
	CreateAction()
	BeginAction()
	ValidateAction()
	CancelAction()
}

// ActionController handles action lifecycle requests
type ActionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewActionController creates a new action controller
func NewActionController(ctx *gin.Context, container *container.ServiceContainer) *ActionController {
	return &ActionController{
		Ctx:       ctx,
		Container: container,
	}
}

// ActionRequest represents an action creation payload
type ActionRequest struct {
	RoomID uint   `json:"room_id" binding:"required" example:"1"`
	Kind   string `json:"kind" binding:"required" example:"assignment"` // assignment, unassignment, maintenance
}

// ValidateActionRequest represents the kind-dependent validation payload
type ValidateActionRequest struct {
	SystemName string `json:"system_name" example:"ESP-007"` // assignment only
	Repaired   *bool  `json:"repaired" example:"true"`       // maintenance only
}

// HandleActionFunc returns a gin handler for the given action method
func HandleActionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewActionController(ctx, container)

		switch method {
		case "getActions":
			controller.GetActions()
		case "getAction":
			controller.GetAction()
		case "createAction":
			controller.CreateAction()
		case "beginAction":
			controller.BeginAction()
		case "validateAction":
			controller.ValidateAction()
		case "cancelAction":
			controller.CancelAction()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

func (c *ActionController) actionID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c.Ctx, "invalid action ID")
		return 0, false
	}
	return uint(id), true
}

// GetActions lists actions, optionally filtered by room
// @Summary List actions
// @Tags action
// @Produce json
// @Security BearerAuth
// @Param room_id query int false "Room ID"
// @Param pageNum query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param desc query bool false "Newest first"
// @Success 200 {array} models.Action
// @Router /actions [get]
func (c *ActionController) GetActions() {
	actionService := c.Container.GetService("action").(services.InterfaceActionService)

	if roomParam := c.Ctx.Query("room_id"); roomParam != "" {
		roomID, err := strconv.Atoi(roomParam)
		if err != nil || roomID <= 0 {
			response.ParamError(c.Ctx, "invalid room ID")
			return
		}
		actions, err := actionService.GetActionsByRoom(uint(roomID))
		if err != nil {
			response.Fail(c.Ctx, code.ErrDatabase, nil)
			return
		}
		response.Success(c.Ctx, actions)
		return
	}

	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "invalid pagination parameters")
		return
	}

	actions, pagination, err := actionService.GetAllActions(query)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, gin.H{
		"items":      actions,
		"pagination": pagination,
	})
}

// GetAction gets one action
// @Summary Get action
// @Tags action
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} models.Action
// @Failure 404 {object} response.Response
// @Router /actions/{id} [get]
func (c *ActionController) GetAction() {
	id, ok := c.actionID()
	if !ok {
		return
	}
	actionService := c.Container.GetService("action").(services.InterfaceActionService)

	action, err := actionService.GetActionByID(id)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, action)
}

// CreateAction requests a new action on a room
// @Summary Create action
// @Description Request an assignment, unassignment or maintenance action.
// @Description At most one assignment or unassignment may be open per room.
// @Tags action
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param action body ActionRequest true "Action"
// @Success 200 {object} models.Action
// @Failure 409 {object} response.Response
// @Router /actions [post]
func (c *ActionController) CreateAction() {
	var req ActionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	kind := models.ActionKind(req.Kind)
	switch kind {
	case models.ActionKindAssignment, models.ActionKindUnassignment, models.ActionKindMaintenance:
	default:
		response.ParamError(c.Ctx, "invalid action kind")
		return
	}

	actionService := c.Container.GetService("action").(services.InterfaceActionService)
	action, err := actionService.CreateAction(req.RoomID, kind)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, action)
}

// BeginAction moves an action to DOING
// @Summary Begin action
// @Description Start working on a TO_DO action
// @Tags action
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} models.Action
// @Failure 409 {object} response.Response
// @Router /actions/{id}/begin [post]
func (c *ActionController) BeginAction() {
	id, ok := c.actionID()
	if !ok {
		return
	}
	actionService := c.Container.GetService("action").(services.InterfaceActionService)

	action, err := actionService.Begin(id)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, action)
}

// ValidateAction completes a DOING action
// @Summary Validate action
// @Description Complete an action; payload depends on the action kind
// @Tags action
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Param payload body ValidateActionRequest true "Validation payload"
// @Success 200 {object} models.Action
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /actions/{id}/validate [post]
func (c *ActionController) ValidateAction() {
	id, ok := c.actionID()
	if !ok {
		return
	}

	var req ValidateActionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	actionService := c.Container.GetService("action").(services.InterfaceActionService)
	action, err := actionService.Validate(id, services.ValidateActionInput{
		SystemName: req.SystemName,
		Repaired:   req.Repaired,
	})
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, action)
}

// CancelAction removes an open action
// @Summary Cancel action
// @Description Abort an action that has not completed yet
// @Tags action
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /actions/{id} [delete]
func (c *ActionController) CancelAction() {
	id, ok := c.actionID()
	if !ok {
		return
	}
	actionService := c.Container.GetService("action").(services.InterfaceActionService)

	if err := actionService.Cancel(id); err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, nil)
}
