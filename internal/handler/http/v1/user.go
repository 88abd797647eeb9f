package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Get a public profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} PublicUserResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getUser").WithField("id", id)

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusOK, ModelToPublicUserResponse(user))
}

// @Summary Update my profile
// @Description Partial update of the caller's profile.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/me [patch]
func (h *Handler) updateMe(c *gin.Context) {
	log := h.logger.WithField("method", "updateMe")

	var input UpdateUserRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), UpdateUserRequestToPatch(input))
	if err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Delete my account
// @Description Deletes the caller together with all their reports and images.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/me [delete]
func (h *Handler) deleteMe(c *gin.Context) {
	log := h.logger.WithField("method", "deleteMe")

	if err := h.userService.DeleteAccount(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Account deleted successfully"})
}
