package controllers

import (
	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/internal/error/response"
	"roomsense-http-service/models"
	"roomsense-http-service/services"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceThresholdController defines the threshold controller interface
type InterfaceThresholdController interface {
	GetThresholds()
	UpdateThresholds()
	ResetThresholds()
}

// ThresholdController handles threshold policy requests
type ThresholdController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewThresholdController creates a new threshold controller
func NewThresholdController(ctx *gin.Context, container *container.ServiceContainer) *ThresholdController {
	return &ThresholdController{
		Ctx:       ctx,
		Container: container,
	}
}

// ThresholdRequest carries the three configurable bound groups
type ThresholdRequest struct {
	HeatingTemperature    models.BoundGroup `json:"heating_temperature" binding:"required"`
	NonHeatingTemperature models.BoundGroup `json:"non_heating_temperature" binding:"required"`
	Humidity              models.BoundGroup `json:"humidity" binding:"required"`
}

// HandleThresholdFunc returns a gin handler for the given threshold method
func HandleThresholdFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewThresholdController(ctx, container)

		switch method {
		case "getThresholds":
			controller.GetThresholds()
		case "updateThresholds":
			controller.UpdateThresholds()
		case "resetThresholds":
			controller.ResetThresholds()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

// GetThresholds returns the canonical threshold policy
// @Summary Get threshold policy
// @Tags threshold
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ThresholdPolicy
// @Router /thresholds [get]
func (c *ThresholdController) GetThresholds() {
	thresholdService := c.Container.GetService("threshold").(services.InterfaceThresholdService)

	policy, err := thresholdService.GetPolicy()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, policy)
}

// UpdateThresholds replaces the configurable bound groups
// @Summary Update threshold policy
// @Description Replace the configurable bounds; orderings violating
// @Description criticalMin < warningMin < warningMax < criticalMax are rejected
// @Tags threshold
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param thresholds body ThresholdRequest true "Bound groups"
// @Success 200 {object} models.ThresholdPolicy
// @Failure 400 {object} response.Response
// @Router /thresholds [put]
func (c *ThresholdController) UpdateThresholds() {
	var req ThresholdRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	thresholdService := c.Container.GetService("threshold").(services.InterfaceThresholdService)
	policy, err := thresholdService.UpdatePolicy(&models.ThresholdPolicy{
		HeatingTemperature:    req.HeatingTemperature,
		NonHeatingTemperature: req.NonHeatingTemperature,
		Humidity:              req.Humidity,
	})
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, policy)
}

// ResetThresholds restores the default bounds
// @Summary Reset threshold policy
// @Tags threshold
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ThresholdPolicy
// @Router /thresholds/reset [post]
func (c *ThresholdController) ResetThresholds() {
	thresholdService := c.Container.GetService("threshold").(services.InterfaceThresholdService)

	policy, err := thresholdService.ResetPolicy()
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, policy)
}
