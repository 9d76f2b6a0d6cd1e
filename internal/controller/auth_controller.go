package controller

import (
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	SignUp(ctx *fiber.Ctx) error
	SignIn(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
	RefreshToken(ctx *fiber.Ctx) error
	SignOut(ctx *fiber.Ctx) error
	RequestPasswordReset(ctx *fiber.Ctx) error
	VerifyPasswordReset(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/sign-up", c.SignUp)
	h.Post("/verify-email", c.VerifyEmail)
	h.Post("/sign-in", c.SignIn)
	h.Post("/refresh", c.RefreshToken)
	h.Post("/sign-out", c.SignOut)
	h.Post("/password-reset/request", c.RequestPasswordReset)
	h.Post("/password-reset/verify", c.VerifyPasswordReset)
}

func (c *authController) SignUp(ctx *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignUp(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success sign up", res))
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.VerifyEmail(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Email verified", nil))
}

func (c *authController) SignIn(ctx *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignIn(ctx.Context(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sign in", res))
}

func (c *authController) RefreshToken(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RefreshToken(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh token", res))
}

func (c *authController) SignOut(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.SignOut(ctx.Context(), req.RefreshToken); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success sign out", nil))
}

func (c *authController) RequestPasswordReset(ctx *fiber.Ctx) error {
	var req dto.RequestPasswordResetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RequestPasswordReset(ctx.Context(), &req); err != nil {
		return err
	}

	// Same response whether or not the account exists
	return ctx.JSON(serverutils.SuccessResponse[any]("If the account exists, a reset email was sent", nil))
}

func (c *authController) VerifyPasswordReset(ctx *fiber.Ctx) error {
	var req dto.VerifyPasswordResetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.VerifyPasswordReset(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Password updated", nil))
}
