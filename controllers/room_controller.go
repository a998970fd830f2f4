package controllers

import (
	"errors"
	"strconv"

	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/internal/error/response"
	"roomsense-http-service/models"
	"roomsense-http-service/services"
	"roomsense-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceRoomController defines the room controller interface
type InterfaceRoomController interface {
	GetRooms()
	GetRoom()
	CreateRoom()
	UpdateRoom()
	DeleteRoom()
	RefreshRoom()
	RefreshAllRooms()
}

// RoomController handles room requests
type RoomController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRoomController creates a new room controller
func NewRoomController(ctx *gin.Context, container *container.ServiceContainer) *RoomController {
	return &RoomController{
		Ctx:       ctx,
		Container: container,
	}
}

// RoomRequest represents a room create/update payload
type RoomRequest struct {
	Name      string  `json:"name" binding:"required" example:"D205"`
	Floor     int     `json:"floor" example:"2"`
	Direction string  `json:"direction" example:"S"`
	Heaters   int     `json:"heaters" example:"2"`
	Windows   int     `json:"windows" example:"3"`
	Surface   float64 `json:"surface" example:"52.5"`
}

// HandleRoomFunc returns a gin handler for the given room method
func HandleRoomFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRoomController(ctx, container)

		switch method {
		case "getRooms":
			controller.GetRooms()
		case "getRoom":
			controller.GetRoom()
		case "createRoom":
			controller.CreateRoom()
		case "updateRoom":
			controller.UpdateRoom()
		case "deleteRoom":
			controller.DeleteRoom()
		case "refreshRoom":
			controller.RefreshRoom()
		case "refreshAllRooms":
			controller.RefreshAllRooms()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}

func (c *RoomController) roomID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c.Ctx, "invalid room ID")
		return 0, false
	}
	return uint(id), true
}

// GetRooms lists all rooms
// @Summary List rooms
// @Description Get all rooms with their acquisition systems
// @Tags room
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Room
// @Router /rooms [get]
func (c *RoomController) GetRooms() {
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)

	rooms, err := roomService.GetAllRooms()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, rooms)
}

// GetRoom gets a single room
// @Summary Get room
// @Description Get one room by ID with its system and action history
// @Tags room
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} models.Room
// @Failure 404 {object} response.Response
// @Router /rooms/{id} [get]
func (c *RoomController) GetRoom() {
	id, ok := c.roomID()
	if !ok {
		return
	}
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)

	room, err := roomService.GetRoomByID(id)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, room)
}

// CreateRoom creates a room
// @Summary Create room
// @Description Register a new monitored room
// @Tags room
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body RoomRequest true "Room"
// @Success 200 {object} models.Room
// @Failure 400 {object} response.Response
// @Router /rooms [post]
func (c *RoomController) CreateRoom() {
	var req RoomRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	room := models.Room{
		Name:      req.Name,
		Floor:     req.Floor,
		Direction: models.CardinalDirection(req.Direction),
		Heaters:   req.Heaters,
		Windows:   req.Windows,
		Surface:   req.Surface,
	}

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	if err := roomService.CreateRoom(&room); err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, room)
}

// UpdateRoom updates the descriptive attributes of a room
// @Summary Update room
// @Description Update room attributes (state fields are managed by the evaluator)
// @Tags room
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param updates body map[string]interface{} true "Updates"
// @Success 200 {object} models.Room
// @Router /rooms/{id} [put]
func (c *RoomController) UpdateRoom() {
	id, ok := c.roomID()
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	room, err := roomService.UpdateRoom(id, updates)
	if err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, room)
}

// DeleteRoom deletes a room
// @Summary Delete room
// @Description Delete an unlinked room and its action history
// @Tags room
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rooms/{id} [delete]
func (c *RoomController) DeleteRoom() {
	id, ok := c.roomID()
	if !ok {
		return
	}

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	if err := roomService.DeleteRoom(id); err != nil {
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, nil)
}

// RefreshRoom re-evaluates the environmental state of one room
// @Summary Refresh room state
// @Description Fetch the latest readings and re-classify the room
// @Tags room
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} services.EvaluationResult
// @Failure 502 {object} response.Response
// @Router /rooms/{id}/refresh [post]
func (c *RoomController) RefreshRoom() {
	id, ok := c.roomID()
	if !ok {
		return
	}

	evaluator := c.Container.GetService("evaluator").(services.InterfaceEvaluatorService)
	result, err := evaluator.EvaluateRoom(id)
	if err != nil {
		if errors.Is(err, services.ErrSensorSourceUnavailable) {
			response.Fail(c.Ctx, code.ErrRoomRefreshFailed, nil)
			return
		}
		response.Fail(c.Ctx, serviceErrorCode(err), nil)
		return
	}
	response.Success(c.Ctx, result)
}

// RefreshAllRooms re-evaluates every linked room
// @Summary Refresh all rooms
// @Description Re-evaluate every room with a linked acquisition system
// @Tags room
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.RoomRefreshOutcome
// @Router /rooms/refresh [post]
func (c *RoomController) RefreshAllRooms() {
	evaluator := c.Container.GetService("evaluator").(services.InterfaceEvaluatorService)

	outcomes, err := evaluator.EvaluateAllRooms()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, outcomes)
}
