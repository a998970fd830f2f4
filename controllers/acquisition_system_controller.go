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

// InterfaceAcquisitionSystemController defines the acquisition system controller interface
type InterfaceAcquisitionSystemController interface {
	GetSystems()
	GetSystem()
	CreateSystem()
	UpdateSystem()
	DeleteSystem()
}

// AcquisitionSystemController handles acquisition system requests
type AcquisitionSystemController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAcquisitionSystemController creates a new acquisition system controller
func NewAcquisitionSystemController(ctx *gin.Context, container *container.ServiceContainer) *AcquisitionSystemController {
	return &AcquisitionSystemController{
		Ctx:       ctx,
		Container: container,
	}
}

// AcquisitionSystemRequest represents a system create payload
type AcquisitionSystemRequest struct {
	Name      string `json:"name" binding:"required" example:"ESP-007"`
	AccessKey string `json:"access_key" example:""` // generated when empty
}

// HandleAcquisitionSystemFunc returns a gin handler for the given method
func HandleAcquisitionSystemFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAcquisitionSystemController(ctx, container)

		switch method {
		case "getSystems":
			controller.GetSystems()
		case "getSystem":
			controller.GetSystem()
		case "createSystem":
			controller.CreateSystem()
		case "updateSystem":
			controller.UpdateSystem()
		case "deleteSystem":
			controller.DeleteSystem()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

func (c *AcquisitionSystemController) systemID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c.Ctx, "invalid acquisition system ID")
		return 0, false
	}
	return uint(id), true
}

// GetSystems lists all acquisition systems
// @Summary List acquisition systems
// @Tags acquisition_system
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AcquisitionSystem
// @Router /systems [get]
func (c *AcquisitionSystemController) GetSystems() {
	systemService := c.Container.GetService("acquisition_system").(services.InterfaceAcquisitionSystemService)

	systems, err := systemService.GetAllSystems()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, systems)
}

// GetSystem gets one acquisition system
// @Summary Get acquisition system
// @Tags acquisition_system
// @Produce json
// @Security BearerAuth
// @Param id path int true "System ID"
// @Success 200 {object} models.AcquisitionSystem
// @Failure 404 {object} response.Response
// @Router /systems/{id} [get]
func (c *AcquisitionSystemController) GetSystem() {
	id, ok := c.systemID()
	if !ok {
		return
	}
	systemService := c.Container.GetService("acquisition_system").(services.InterfaceAcquisitionSystemService)

	system, err := systemService.GetSystemByID(id)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, system)
}

// CreateSystem registers a new acquisition system
// @Summary Create acquisition system
// @Tags acquisition_system
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param system body AcquisitionSystemRequest true "System"
// @Success 200 {object} models.AcquisitionSystem
// @Failure 400 {object} response.Response
// @Router /systems [post]
func (c *AcquisitionSystemController) CreateSystem() {
	var req AcquisitionSystemRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	system := models.AcquisitionSystem{
		Name:      req.Name,
		AccessKey: req.AccessKey,
	}

	systemService := c.Container.GetService("acquisition_system").(services.InterfaceAcquisitionSystemService)
	if err := systemService.CreateSystem(&system); err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, system)
}

// UpdateSystem updates an acquisition system
// @Summary Update acquisition system
// @Tags acquisition_system
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "System ID"
// @Param updates body map[string]interface{} true "Updates"
// @Success 200 {object} models.AcquisitionSystem
// @Router /systems/{id} [put]
func (c *AcquisitionSystemController) UpdateSystem() {
	id, ok := c.systemID()
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	systemService := c.Container.GetService("acquisition_system").(services.InterfaceAcquisitionSystemService)
	system, err := systemService.UpdateSystem(id, updates)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, system)
}

// DeleteSystem removes an unlinked acquisition system
// @Summary Delete acquisition system
// @Tags acquisition_system
// @Produce json
// @Security BearerAuth
// @Param id path int true "System ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /systems/{id} [delete]
func (c *AcquisitionSystemController) DeleteSystem() {
	id, ok := c.systemID()
	if !ok {
		return
	}

	systemService := c.Container.GetService("acquisition_system").(services.InterfaceAcquisitionSystemService)
	if err := systemService.DeleteSystem(id); err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, nil)
}
