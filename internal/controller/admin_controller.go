package controller

import (
	"errors"
	"strconv"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/pkg/logger"
	"cloudnote-be/internal/pkg/serverutils"
	"cloudnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ListNotebooks(ctx *fiber.Ctx) error
	DeleteNotebook(ctx *fiber.Ctx) error
	SetPublic(ctx *fiber.Ctx) error
	SetArchiveCode(ctx *fiber.Ctx) error
	AuditLogs(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	LogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
	appLogger    logger.ILogger
}

func NewAdminController(adminService service.IAdminService, appLogger logger.ILogger) IAdminController {
	return &adminController{
		adminService: adminService,
		appLogger:    appLogger,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("login", c.Login)
	h.Post("logout", c.Logout)
	h.Get("status", c.Status)
	h.Get("notebooks", c.ListNotebooks)
	h.Delete("notebooks/:id", c.DeleteNotebook)
	h.Put("notebooks/:id/public", c.SetPublic)
	h.Put("notebooks/:id/archive-code", c.SetArchiveCode)
	h.Get("audit", c.AuditLogs)
	h.Get("logs", c.Logs)
	h.Get("logs/:id", c.LogDetail)
}

func (c *adminController) sessionID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("session_id").(string); ok {
		return id
	}
	return ""
}

func adminStatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAdminRequired):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotebookNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (c *adminController) fail(ctx *fiber.Ctx, err error) error {
	code := adminStatusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, message))
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	ok, err := c.adminService.Login(ctx.UserContext(), c.sessionID(ctx), req.Password)
	if err != nil {
		return c.fail(ctx, err)
	}
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "incorrect password"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", nil))
}

func (c *adminController) Logout(ctx *fiber.Ctx) error {
	if err := c.adminService.Logout(ctx.UserContext(), c.sessionID(ctx)); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin logged out", nil))
}

func (c *adminController) Status(ctx *fiber.Ctx) error {
	loggedIn, err := c.adminService.IsLoggedIn(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin status", fiber.Map{"logged_in": loggedIn}))
}

func (c *adminController) ListNotebooks(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))

	res, err := c.adminService.ListNotebooks(ctx.UserContext(), c.sessionID(ctx), page)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Notebook list", res))
}

func (c *adminController) DeleteNotebook(ctx *fiber.Ctx) error {
	slug := ctx.Params("id")
	if !serverutils.ValidNotebookID(slug) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notebook id"))
	}

	if err := c.adminService.DeleteNotebook(ctx.UserContext(), c.sessionID(ctx), slug); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Notebook deleted", nil))
}

func (c *adminController) SetPublic(ctx *fiber.Ctx) error {
	slug := ctx.Params("id")
	if !serverutils.ValidNotebookID(slug) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notebook id"))
	}

	var req dto.AdminSetPublicRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := c.adminService.SetPublic(ctx.UserContext(), c.sessionID(ctx), slug, req.IsPublic); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Public flag updated", nil))
}

func (c *adminController) SetArchiveCode(ctx *fiber.Ctx) error {
	slug := ctx.Params("id")
	if !serverutils.ValidNotebookID(slug) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notebook id"))
	}

	var req dto.AdminSetArchiveCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := c.adminService.SetArchiveCode(ctx.UserContext(), c.sessionID(ctx), slug, req.ArchiveCode); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Archive code updated", nil))
}

func (c *adminController) AuditLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))

	logs, err := c.adminService.GetAuditLogs(ctx.UserContext(), c.sessionID(ctx), limit)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit logs", logs))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	loggedIn, err := c.adminService.IsLoggedIn(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return c.fail(ctx, err)
	}
	if !loggedIn {
		return c.fail(ctx, service.ErrAdminRequired)
	}

	level := ctx.Query("level", "")
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	entries, err := c.appLogger.GetLogs(level, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to read logs"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Application logs", entries))
}

func (c *adminController) LogDetail(ctx *fiber.Ctx) error {
	loggedIn, err := c.adminService.IsLoggedIn(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return c.fail(ctx, err)
	}
	if !loggedIn {
		return c.fail(ctx, service.ErrAdminRequired)
	}

	entry, err := c.appLogger.GetLogById(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log entry not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log entry", entry))
}
