package controller

import (
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITranscriptController interface {
	RegisterRoutes(r fiber.Router)
	GetTranscript(ctx *fiber.Ctx) error
}

type transcriptController struct {
	transcriptService service.ITranscriptService
}

func NewTranscriptController(transcriptService service.ITranscriptService) ITranscriptController {
	return &transcriptController{
		transcriptService: transcriptService,
	}
}

func (c *transcriptController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/transcript", c.GetTranscript)
}

func (c *transcriptController) GetTranscript(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.transcriptService.GetTranscript(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}
