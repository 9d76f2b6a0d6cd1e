package controller

import (
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Post(":id/end", c.End)
	h.Delete(":id", c.Delete)
}

func callerID(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId := callerID(ctx)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId := callerID(ctx)

	res, err := c.sessionService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Update(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update session", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.End(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.sessionService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}
