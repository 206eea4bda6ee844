package handlers

import (
	"log"

	"agromart/internal/storage"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler issues presigned object-storage URLs. Files never pass
// through the API server.
type UploadHandler struct {
	store *storage.Service
}

func NewUploadHandler(store *storage.Service) *UploadHandler {
	return &UploadHandler{store: store}
}

// PresignUpload returns a short-lived PUT URL for a product image, KYC scan
// or post attachment.
func (h *UploadHandler) PresignUpload(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Kind        string `json:"kind"` // products, kyc, posts
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Filename == "" || input.Kind == "" {
		return utils.BadRequest(c, "kind and filename are required")
	}
	if !storage.ContentTypeAllowed(input.ContentType) {
		return utils.BadRequest(c, "Unsupported content type")
	}

	key := storage.ObjectKey(userID, input.Kind, input.Filename)
	url, err := h.store.PresignUpload(c.Context(), key, input.ContentType)
	if err != nil {
		log.Printf("Presign upload failed for user %d: %v", userID, err)
		return utils.InternalError(c, "Failed to create upload URL")
	}

	return utils.Success(c, fiber.Map{
		"upload_url": url,
		"key":        key,
	})
}

// PresignDownload returns a short-lived GET URL for a stored object.
func (h *UploadHandler) PresignDownload(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return utils.BadRequest(c, "key is required")
	}

	url, err := h.store.PresignDownload(c.Context(), key)
	if err != nil {
		return utils.InternalError(c, "Failed to create download URL")
	}
	return utils.Success(c, fiber.Map{"download_url": url})
}
