package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/userdir/userdir-server/internal/logger"
	"github.com/userdir/userdir-server/internal/model"
	"github.com/userdir/userdir-server/internal/schema"
)

// UserService defines business operations for the user directory.
type UserService interface {
	List(ctx context.Context, params model.ListParams) (model.ListResult, error)
	Create(ctx context.Context, user model.User) error
	Update(ctx context.Context, patch model.User) error
	Delete(ctx context.Context, email string) error
}

// User handles HTTP endpoints for user records.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		logger:      logger,
	}
}

// List returns one page of users, optionally filtered by email and
// projected to the requested attributes.
func (h *User) List(c *fiber.Ctx) error {
	h.logger.Debug("User handler: processing list users request")

	queries := c.Queries()
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	extra := schema.UnknownParams(names, schema.ListUsersParamNames)

	params := schema.ListUsersParams{
		Email:            queries["email"],
		ReturnAttributes: queries["returnAttributes"],
		NextToken:        queries["nextToken"],
	}
	if raw, ok := queries["limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			extra = append(extra, "limit: must be an integer")
		} else {
			params.Limit = &n
		}
	}

	if result := schema.Check(params, extra...); !result.Valid {
		return badRequest(c, result.ErrorMessage())
	}

	listParams := model.ListParams{
		Email:     params.Email,
		NextToken: params.NextToken,
	}
	if params.ReturnAttributes != "" {
		listParams.ReturnAttributes = strings.Split(params.ReturnAttributes, ",")
	}
	if params.Limit != nil {
		listParams.Limit = int32(*params.Limit)
	}

	result, err := h.userService.List(c.UserContext(), listParams)
	if err != nil {
		if errors.Is(err, model.ErrMalformedCursor) {
			return badRequest(c, malformedTokenError)
		}
		h.logger.Error("User handler: list users failed", "error", err.Error())
		return internalError(c)
	}

	if result.Users == nil {
		result.Users = []model.User{}
	}

	h.logger.Info("User handler: users listed successfully", "count", len(result.Users))

	return c.JSON(listResponse{
		Data:      result.Users,
		NextToken: result.NextToken,
	})
}

// Create stores a new user record, overwriting any previous record with
// the same email.
func (h *User) Create(c *fiber.Ctx) error {
	h.logger.Debug("User handler: processing create user request")

	var input schema.CreateUserInput
	if err := schema.DecodeStrict(c.Body(), &input); err != nil {
		return badRequest(c, err.Error())
	}

	if result := schema.Check(input); !result.Valid {
		return badRequest(c, result.ErrorMessage())
	}

	user := model.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Gender:    input.Gender,
		JobTitle:  input.JobTitle,
		Country:   input.Country,
	}

	if err := h.userService.Create(c.UserContext(), user); err != nil {
		h.logger.Error("User handler: create user failed",
			"email", input.Email,
			"error", err.Error())
		return internalError(c)
	}

	h.logger.Info("User handler: user created successfully", "email", input.Email)

	return c.JSON(messageResponse{Message: userAddedMessage})
}

// Update merges the supplied attributes onto an existing record.
func (h *User) Update(c *fiber.Ctx) error {
	h.logger.Debug("User handler: processing update user request")

	var input schema.UpdateUserInput
	if err := schema.DecodeStrict(c.Body(), &input); err != nil {
		return badRequest(c, err.Error())
	}

	if result := schema.Check(input); !result.Valid {
		return badRequest(c, result.ErrorMessage())
	}

	patch := model.User{Email: input.Email}
	if input.FirstName != nil {
		patch.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		patch.LastName = *input.LastName
	}
	if input.Gender != nil {
		patch.Gender = *input.Gender
	}
	if input.JobTitle != nil {
		patch.JobTitle = *input.JobTitle
	}
	if input.Country != nil {
		patch.Country = *input.Country
	}

	if err := h.userService.Update(c.UserContext(), patch); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return badRequest(c, userNotFoundReason(input.Email))
		}
		h.logger.Error("User handler: update user failed",
			"email", input.Email,
			"error", err.Error())
		return internalError(c)
	}

	h.logger.Info("User handler: user updated successfully", "email", input.Email)

	return c.JSON(messageResponse{Message: userUpdatedMessage})
}

// Delete removes a user record by email.
func (h *User) Delete(c *fiber.Ctx) error {
	h.logger.Debug("User handler: processing delete user request")

	queries := c.Queries()
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	extra := schema.UnknownParams(names, schema.DeleteUserParamNames)

	params := schema.DeleteUserParams{Email: queries["email"]}
	if result := schema.Check(params, extra...); !result.Valid {
		return badRequest(c, result.ErrorMessage())
	}

	if err := h.userService.Delete(c.UserContext(), params.Email); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return badRequest(c, userNotFoundReason(params.Email))
		}
		h.logger.Error("User handler: delete user failed",
			"email", params.Email,
			"error", err.Error())
		return internalError(c)
	}

	h.logger.Info("User handler: user deleted successfully", "email", params.Email)

	return c.JSON(messageResponse{Message: userDeletedMessage})
}
