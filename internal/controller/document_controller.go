package controller

import (
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":id/documents", c.Register)
	h.Get(":id/documents", c.List)
	h.Delete(":id/documents/:documentId", c.Delete)
}

func (c *documentController) Register(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	req := new(dto.RegisterDocumentRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Register(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success register document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.documentService.List(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	if err := c.documentService.Delete(ctx.Context(), userId, sessionId, documentId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
