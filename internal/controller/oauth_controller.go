package controller

import (
	"fmt"
	"os"

	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/oauth/v1")
	h.Get("/:provider/login", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing authorization code")
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		return err
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		return ctx.JSON(res)
	}

	redirectURL := fmt.Sprintf("%s/app?token=%s&refresh=%s", frontendURL, res.AccessToken, res.RefreshToken)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
