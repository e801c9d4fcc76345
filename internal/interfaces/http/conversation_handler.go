package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PanelVentas-api/internal/application/conversation"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
)

// ConversationHandler maneja los leads comerciales. Ingest es público (lo
// llama el conector de mensajería); List/Update van detrás del auth.
type ConversationHandler struct {
	uc *conversation.UseCase
}

// NewConversationHandler construye el handler.
func NewConversationHandler(uc *conversation.UseCase) *ConversationHandler {
	return &ConversationHandler{uc: uc}
}

// Ingest godoc
// @Summary      Ingresar conversación desde el webhook de mensajería
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestConversationRequest  true  "Lead entrante"
// @Success      201   {object}  dto.ConversationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/webhooks/conversations [post]
func (h *ConversationHandler) Ingest(c *fiber.Ctx) error {
	var in dto.IngestConversationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CompanyID == "" || in.Channel == "" || in.ContactPhone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "company_id, channel y contact_phone son requeridos"})
	}
	out, err := h.uc.Ingest(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar conversaciones visibles para el actor
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ConversationResponse
// @Router       /api/conversations [get]
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(c.Context(), actorFrom(c), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar conversación (reasignar vendedor o cambiar estado)
// @Tags         conversations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la conversación"
// @Param        body  body  dto.UpdateConversationRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ConversationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conversations/{id} [put]
func (h *ConversationHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateConversationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), actorFrom(c), id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
