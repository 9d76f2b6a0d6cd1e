package controller

import (
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	ConfirmRegenerate(ctx *fiber.Ctx) error
	DeclineRegenerate(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/note", c.Show)
	h.Get(":id/note/status", c.Status)
	h.Put(":id/note", c.Edit)
	h.Post(":id/note/save", c.Save)
	h.Post(":id/note/generate", c.Generate)
	h.Post(":id/note/regenerate/confirm", c.ConfirmRegenerate)
	h.Post(":id/note/regenerate/decline", c.DeclineRegenerate)
	h.Get(":id/note/export", c.Export)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.Show(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note", res))
}

func (c *noteController) Status(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.Status(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note status", res))
}

func (c *noteController) Edit(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	req := new(dto.UpsertNoteRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Edit(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Save(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.Save(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save note", res))
}

func (c *noteController) Generate(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	req := new(dto.GenerateNoteRequest)
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	req.SessionId = sessionId

	res, err := c.noteService.Generate(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start note generation", res))
}

func (c *noteController) ConfirmRegenerate(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.ConfirmRegenerate(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success confirm regeneration", res))
}

func (c *noteController) DeclineRegenerate(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.DeclineRegenerate(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success decline regeneration", res))
}

func (c *noteController) Export(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.Export(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	ext := "pdf"
	if res.Format == "markdown" {
		ext = "md"
	}

	ctx.Set("Content-Type", res.ContentType)
	ctx.Set("Content-Disposition", "attachment; filename=note."+ext)
	return ctx.Send(res.Data)
}
