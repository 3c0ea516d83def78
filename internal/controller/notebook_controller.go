package controller

import (
	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/pkg/serverutils"
	"cloudnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	Action(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type notebookController struct {
	dispatcher      service.IDispatcherService
	notebookService service.INotebookService
}

func NewNotebookController(dispatcher service.IDispatcherService, notebookService service.INotebookService) INotebookController {
	return &notebookController{
		dispatcher:      dispatcher,
		notebookService: notebookService,
	}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1")
	h.Post("action", c.Action)
	h.Get(":id", c.Show)
	h.Get(":id/logout", c.Logout)
}

func (c *notebookController) sessionID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("session_id").(string); ok {
		return id
	}
	return ""
}

func (c *notebookController) Action(ctx *fiber.Ctx) error {
	var req dto.ActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(&dto.ActionResult{
			Success: false,
			Message: err.Error(),
		})
	}

	res := c.dispatcher.Dispatch(ctx.UserContext(), c.sessionID(ctx), &req)
	return ctx.JSON(res)
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
	slug := ctx.Params("id")
	if !serverutils.ValidNotebookID(slug) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notebook id"))
	}

	// An explicit unlock token marks the navigation that immediately follows
	// a successful password check, so it is not demoted again.
	unlockToken := ctx.Query("unlock_token")

	res, err := c.notebookService.GetState(ctx.UserContext(), c.sessionID(ctx), slug, true, unlockToken)
	if err != nil {
		if service.IsUserFacing(err) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notebook state", res))
}

func (c *notebookController) Logout(ctx *fiber.Ctx) error {
	slug := ctx.Params("id")
	if !serverutils.ValidNotebookID(slug) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notebook id"))
	}

	if err := c.notebookService.Logout(ctx.UserContext(), c.sessionID(ctx), slug); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Logged out", nil))
}
