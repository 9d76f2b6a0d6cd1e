package controller

import (
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// BackendController exposes the trusted write paths used by the AI
// backend. Routes are guarded by a shared service key instead of user
// JWTs, so ownership checks are skipped by the services behind them.
type IBackendController interface {
	RegisterRoutes(r fiber.Router)
	IngestSegment(ctx *fiber.Ctx) error
	UpsertGeneratedNote(ctx *fiber.Ctx) error
	ReportDocumentIndexed(ctx *fiber.Ctx) error
}

type backendController struct {
	transcriptService service.ITranscriptService
	noteService       service.INoteService
	documentService   service.IDocumentService
	serviceKey        string
}

func NewBackendController(
	transcriptService service.ITranscriptService,
	noteService service.INoteService,
	documentService service.IDocumentService,
	serviceKey string,
) IBackendController {
	return &backendController{
		transcriptService: transcriptService,
		noteService:       noteService,
		documentService:   documentService,
		serviceKey:        serviceKey,
	}
}

func (c *backendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/internal/v1")
	h.Use(serverutils.ServiceKeyMiddleware(c.serviceKey))
	h.Post("segments", c.IngestSegment)
	h.Post("notes", c.UpsertGeneratedNote)
	h.Post("documents/indexed", c.ReportDocumentIndexed)
}

func (c *backendController) IngestSegment(ctx *fiber.Ctx) error {
	req := new(dto.IngestSegmentRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.transcriptService.Ingest(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest segment", res))
}

func (c *backendController) UpsertGeneratedNote(ctx *fiber.Ctx) error {
	req := new(dto.UpsertGeneratedNoteRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.UpsertGenerated(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert note", res))
}

func (c *backendController) ReportDocumentIndexed(ctx *fiber.Ctx) error {
	req := new(dto.ReportIndexedRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.ReportIndexed(ctx.Context(), req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success report indexing", nil))
}
