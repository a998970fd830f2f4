package controllers

import (
	"strconv"

	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/internal/error/response"
	"roomsense-http-service/services"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceNotificationController defines the notification controller interface
type InterfaceNotificationController interface {
	GetMyNotifications()
	MarkNotificationRead()
}

// NotificationController handles notification requests
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController creates a new notification controller
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleNotificationFunc returns a gin handler for the given method
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "getMyNotifications":
			controller.GetMyNotifications()
		case "markNotificationRead":
			controller.MarkNotificationRead()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

func (c *NotificationController) currentUserID() (uint, bool) {
	userValue, exists := c.Ctx.Get("user_id")
	if !exists {
		response.Unauthorized(c.Ctx)
		return 0, false
	}
	userID, ok := userValue.(uint)
	if !ok {
		response.Unauthorized(c.Ctx)
		return 0, false
	}
	return userID, true
}

// GetMyNotifications lists the notifications of the current user
// @Summary List my notifications
// @Tags notification
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (c *NotificationController) GetMyNotifications() {
	userID, ok := c.currentUserID()
	if !ok {
		return
	}

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notifications, err := notificationService.GetNotificationsForUser(userID)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, notifications)
}

// MarkNotificationRead flags a notification as read
// @Summary Mark notification read
// @Tags notification
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkNotificationRead() {
	userID, ok := c.currentUserID()
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c.Ctx, "invalid notification ID")
		return
	}

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notification, err := notificationService.MarkRead(uint(id), userID)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, notification)
}
