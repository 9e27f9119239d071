package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workload-service/internal/api/dto"
	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/domain"
	"github.com/spec-kit/workload-service/internal/service"
	apperrors "github.com/spec-kit/workload-service/pkg/util"
)

// EntityHandler exposes one entity module over HTTP. The same handler shape
// serves staff, courses and tasks.
type EntityHandler[R domain.Record] struct {
	module       *service.Module[R]
	filterParams []string
}

// NewEntityHandler constructs a handler; filterParams lists the query
// parameters mapped onto equality predicates.
func NewEntityHandler[R domain.Record](module *service.Module[R], filterParams ...string) *EntityHandler[R] {
	return &EntityHandler[R]{module: module, filterParams: filterParams}
}

// List handles GET /<kind>. Query parameters set the filter criteria; an
// absent parameter resets its predicate.
func (h *EntityHandler[R]) List(c *fiber.Ctx) error {
	for _, param := range h.filterParams {
		h.module.SetFilter(param, c.Query(param, service.FilterAll))
	}
	h.module.SetQuery(c.Query("q"))

	items := h.module.Visible()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"items": items,
			"total": len(h.module.List()),
		},
	})
}

// Get handles GET /<kind>/:id and opens the detail view.
func (h *EntityHandler[R]) Get(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	record, err := h.module.View(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Create handles POST /<kind>.
func (h *EntityHandler[R]) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var draft R
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.module.Create(c.Context(), actor, draft)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": record})
}

// Update handles PUT /<kind>/:id.
func (h *EntityHandler[R]) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := recordID(c)
	if err != nil {
		return err
	}

	var draft R
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.module.Update(c.Context(), actor, id, draft)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// RequestDelete handles POST /<kind>/:id/delete-request.
func (h *EntityHandler[R]) RequestDelete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := recordID(c)
	if err != nil {
		return err
	}

	token, err := h.module.RequestDelete(actor, id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.DeleteRequestResponse{ConfirmationToken: token},
	})
}

// ConfirmDelete handles POST /<kind>/:id/delete-confirm.
func (h *EntityHandler[R]) ConfirmDelete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DeleteConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ConfirmationToken == "" {
		return fiber.NewError(http.StatusBadRequest, "confirmation token required")
	}

	if err := h.module.ConfirmDelete(c.Context(), actor, req.ConfirmationToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// UploadImage handles POST /<kind>/:id/image with a multipart "image" field.
// Registered only for kinds that support uploads.
func (h *EntityHandler[R]) UploadImage(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := recordID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "image file required")
	}

	ticket, err := h.module.BeginUpload(actor, id)
	if err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.module.CompleteUpload(c.Context(), actor, ticket, data, contentType); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "uploaded"}})
}

// Notification handles GET /<kind>/notification.
func (h *EntityHandler[R]) Notification(c *fiber.Ctx) error {
	notification, ok := h.module.Notification()
	if !ok {
		return c.JSON(fiber.Map{"data": domain.Notification{}})
	}
	return c.JSON(fiber.Map{"data": notification})
}

// DismissNotification handles DELETE /<kind>/notification.
func (h *EntityHandler[R]) DismissNotification(c *fiber.Ctx) error {
	h.module.Dismiss()
	return c.SendStatus(http.StatusNoContent)
}

// Export handles GET /<kind>/export and returns the self-describing snapshot
// consumed by the export collaborator.
func (h *EntityHandler[R]) Export(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.module.Export()})
}

func recordID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid record id")
	}
	return id, nil
}
