package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// logo uploads are capped at 5 MiB
const maxLogoSize = 5 << 20

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/api/business-profile")
	profile.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		profile.GET("", h.GetProfile)
		profile.POST("", h.SaveProfile)
		profile.PUT("/logo", h.UploadLogo)
	}
}

// GetProfile returns the caller's business profile
// @Summary      Get business profile
// @Tags         business-profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/business-profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// SaveProfile creates or updates the caller's business profile
// @Summary      Save business profile
// @Tags         business-profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaveProfileRequest  true  "Business Profile Payload"
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/business-profile [post]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req service.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	// The profile always belongs to the authenticated user
	req.UserID = userID.String()

	profile, err := h.profileService.SaveProfile(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UploadLogo replaces the business logo
// @Summary      Upload business logo
// @Tags         business-profile
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo  formData  file  true  "Logo image file"
// @Success      200   {object}  response.Response{data=service.ProfileResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/business-profile/logo [put]
func (h *ProfileHandler) UploadLogo(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing logo file: "+err.Error()))
		return
	}
	if fileHeader.Size > maxLogoSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Logo file exceeds the 5MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read logo file: "+err.Error()))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	profile, err := h.profileService.UploadLogo(c.Request.Context(), userID.String(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}
