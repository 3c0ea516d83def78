package controller

import (
	"errors"
	"strconv"

	"cloudnote-be/internal/pkg/serverutils"
	"cloudnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IArchiveController interface {
	RegisterRoutes(r fiber.Router)
	Lookup(ctx *fiber.Ctx) error
}

type archiveController struct {
	archiveService service.IArchiveService
}

func NewArchiveController(archiveService service.IArchiveService) IArchiveController {
	return &archiveController{
		archiveService: archiveService,
	}
}

func (c *archiveController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/archive/v1")
	h.Get("", c.Lookup)
}

func (c *archiveController) Lookup(ctx *fiber.Ctx) error {
	archiveCode := ctx.Query("archive_code")
	page, _ := strconv.Atoi(ctx.Query("page", "1"))

	res, err := c.archiveService.Find(ctx.UserContext(), archiveCode, page)
	if err != nil {
		if errors.Is(err, service.ErrEmptyArchiveCode) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Archive lookup", res))
}
