package handler

import (
	"go-stockdesk/internal/model"
	"go-stockdesk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	service service.BillingService
}

func NewInvoiceHandler(s service.BillingService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// GenerateInvoice renders the invoice for a recorded transaction and writes
// the document file, returning its path.
func (h *InvoiceHandler) GenerateInvoice(c *fiber.Ctx) error {
	var req model.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	path, err := h.service.GenerateInvoice(&req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Invoice generated", "path": path})
}

// PreviewInvoice returns the rendered markup without writing a file.
func (h *InvoiceHandler) PreviewInvoice(c *fiber.Ctx) error {
	var req model.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	markup, err := h.service.RenderInvoice(&req)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(markup)
}
