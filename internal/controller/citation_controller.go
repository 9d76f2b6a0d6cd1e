package controller

import (
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICitationController interface {
	RegisterRoutes(r fiber.Router)
	ListBySession(ctx *fiber.Ctx) error
}

type citationController struct {
	citationService service.ICitationService
}

func NewCitationController(citationService service.ICitationService) ICitationController {
	return &citationController{
		citationService: citationService,
	}
}

func (c *citationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/citations", c.ListBySession)
}

func (c *citationController) ListBySession(ctx *fiber.Ctx) error {
	userId := callerID(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.citationService.ListBySession(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get citations", res))
}
