package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/services"
	"github.com/tripsit/tripsit-api/internal/utils"
	"gorm.io/gorm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserView is the REST representation of a user
type UserView struct {
	ID       string    `json:"id"`
	Email    *string   `json:"email"`
	Username *string   `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

func userView(u *models.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Username: u.Username, JoinedAt: u.JoinedAt}
}

// CreateUserRequest is the body of POST /api/user
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Username string `json:"username" validate:"omitempty,min=2,max=320"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdatePasswordRequest is the body of PATCH /api/user/:userId
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// UserHandler serves the legacy user REST routes
type UserHandler struct {
	DB *gorm.DB
}

// List handles GET /api/user
// @Summary List users
// @Description Lists users that have not been deleted, oldest first
// @Tags Users
// @Produce json
// @Success 200 {array} UserView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := services.ListActiveUsers(c.UserContext(), h.DB)
	if err != nil {
		return err
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// Get handles GET /api/user/:userId
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param userId path string true "User ID (uuid)"
// @Success 200 {object} UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user/{userId} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	user, err := services.GetActiveUser(c.UserContext(), h.DB, id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, userView(user), fiber.StatusOK)
}

// Create handles POST /api/user
// @Summary Register a user
// @Description Creates an email and password account
// @Tags Users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "New account"
// @Success 201 {object} UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		return utils.ValidationErrorResponse(c, validationMessage(err))
	}

	user, err := services.RegisterUser(c.UserContext(), h.DB, req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, userView(user), fiber.StatusCreated)
}

// UpdatePassword handles PATCH /api/user/:userId
// @Summary Change a user's password
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path string true "User ID (uuid)"
// @Param body body UpdatePasswordRequest true "New password"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user/{userId} [patch]
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return utils.ValidationErrorResponse(c, validationMessage(err))
	}

	if _, err := services.UpdatePassword(c.UserContext(), h.DB, id, req.Password); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c)
}

// Delete handles DELETE /api/user/:userId
// @Summary Delete a user
// @Description Flags the user as deleted; the row is kept
// @Tags Users
// @Produce json
// @Param userId path string true "User ID (uuid)"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user/{userId} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	if err := services.SoftDeleteUser(c.UserContext(), h.DB, id); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c)
}

func userIDParam(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return "", apperrors.ValidationError("userId must be a UUID")
	}
	return id.String(), nil
}

// validationMessage reports the first failed rule in caller terms.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
