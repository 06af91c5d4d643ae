package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/userdir/userdir-server/internal/model"
)

const (
	userAddedMessage    = "User added successfully"
	userUpdatedMessage  = "User updated successfully"
	userDeletedMessage  = "User deleted successfully"
	internalErrorReason = "Something went wrong. Please contact administrator"
	malformedTokenError = "invalid nextToken"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Data      []model.User `json:"data"`
	NextToken string       `json:"nextToken"`
}

func badRequest(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: reason})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: internalErrorReason})
}

func userNotFoundReason(email string) string {
	return fmt.Sprintf("User with email %s not found", email)
}
