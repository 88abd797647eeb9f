package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Register a new account
// @Description Create a user account and return an access/refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Validation error or email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), RegisterRequestToInput(input))
	if err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusCreated, AuthResultToResponse(result))
}

// @Summary Log in
// @Description Authenticate with email and password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusOK, AuthResultToResponse(result))
}

// @Summary Log out
// @Description Stateless acknowledgement; the client discards its tokens.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	h.logger.WithField("method", "logout").WithField("user_id", currentUserID(c)).Info("User logged out")
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Logged out successfully"})
}

// @Summary Current user
// @Description Profile of the token owner.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	log := h.logger.WithField("method", "me")

	user, err := h.authService.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, log, err, "user")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}
