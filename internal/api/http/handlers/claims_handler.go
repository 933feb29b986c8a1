package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// ClaimsHandler exposes claim submission and adjudication.
type ClaimsHandler struct {
	claims *service.ClaimService
}

// NewClaimsHandler constructs handler.
func NewClaimsHandler(claims *service.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{claims: claims}
}

// Submit handles POST /items/:id/claims.
func (h *ClaimsHandler) Submit(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	claim, err := h.claims.SubmitClaim(c.UserContext(), c.Params("id"), session.UserID, service.ClaimInput{
		Description: req.Description,
		Evidence:    req.Evidence,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimResponse(claim)})
}

// Mine handles GET /items/:id/claims/my.
func (h *ClaimsHandler) Mine(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	claim, err := h.claims.GetMyClaim(c.UserContext(), c.Params("id"), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// Pending handles GET /claims/pending.
func (h *ClaimsHandler) Pending(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	details, err := h.claims.ListPendingClaims(c.UserContext(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimDetailResponses(details)})
}

// Approve handles POST /claims/:id/approve.
func (h *ClaimsHandler) Approve(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	claim, err := h.claims.ApproveClaim(c.UserContext(), c.Params("id"), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// Reject handles POST /claims/:id/reject.
func (h *ClaimsHandler) Reject(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	claim, err := h.claims.RejectClaim(c.UserContext(), c.Params("id"), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}
