package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISideChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetByParentChat(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	AddMessage(ctx *fiber.Ctx) error
	Combine(ctx *fiber.Ctx) error
	Discard(ctx *fiber.Ctx) error
}

type sideChatController struct {
	service service.ISideChatService
}

func NewSideChatController(service service.ISideChatService) ISideChatController {
	return &sideChatController{service: service}
}

func (c *sideChatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sidechat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("/by-chat/:chatId", c.GetByParentChat)
	h.Get("/:id/messages", c.GetMessages)
	h.Post("/:id/messages", c.AddMessage)
	h.Post("/:id/combine", c.Combine)
	h.Delete("/:id", c.Discard)
}

func (c *sideChatController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateSideChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create side chat", res))
}

func (c *sideChatController) GetByParentChat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	chatIdParam := ctx.Params("chatId")
	chatId, _ := uuid.Parse(chatIdParam)

	res, err := c.service.GetByParentChat(ctx.Context(), userId, chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get side chats", res))
}

func (c *sideChatController) GetMessages(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.GetMessages(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get side chat messages", res))
}

func (c *sideChatController) AddMessage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.AddSideChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddMessage(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add side chat message", res))
}

func (c *sideChatController) Combine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Combine(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success combine side chat", res))
}

func (c *sideChatController) Discard(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.service.Discard(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success discard side chat", nil))
}
