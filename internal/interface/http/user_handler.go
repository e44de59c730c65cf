package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	"github.com/oksasatya/recruitment-accounts/internal/interface/middleware"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
	"github.com/oksasatya/recruitment-accounts/pkg/response"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

// maxUploadBytes bounds photo and resume uploads.
const maxUploadBytes = 5 << 20

// Profiles is the profile side of the service.
type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.Profile, error)
	UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.Profile, error)
	UploadResume(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.Profile, error)
	Search(ctx context.Context, q string, size int) ([]entity.Profile, error)
}

// AccountRemover deletes accounts and retires the token used to do so.
type AccountRemover interface {
	DeleteAccount(ctx context.Context, requesterID, targetID string) error
	Logout(ctx context.Context, token string) error
}

type UserHandler struct {
	Svc      Profiles
	Accounts AccountRemover
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewUserHandler(svc Profiles, accounts AccountRemover, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Accounts: accounts, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type updateProfileRequest struct {
	Name            *string           `json:"name" binding:"omitempty,min=1,max=120"`
	AdmissionNumber *string           `json:"admissionNumber" binding:"omitempty,max=64"`
	Year            *string           `json:"year" binding:"omitempty,max=16"`
	Domain          *string           `json:"domain" binding:"omitempty,max=64"`
	PhoneNumber     *string           `json:"phoneNumber" binding:"omitempty,phone"`
	Photo           *string           `json:"photo" binding:"omitempty,url"`
	Resume          *string           `json:"resume" binding:"omitempty,url"`
	SocialLinks     map[string]string `json:"socialLinks" binding:"omitempty,max=10,dive,keys,max=32,endkeys,url"`

	AdmissionNumberSnake *string           `json:"admission_number" binding:"omitempty,max=64"`
	PhoneNumberSnake     *string           `json:"phone_number" binding:"omitempty,phone"`
	SocialLinksSnake     map[string]string `json:"social_links" binding:"omitempty,max=10,dive,keys,max=32,endkeys,url"`
}

func (r updateProfileRequest) changes() entity.ProfileUpdate {
	links := r.SocialLinks
	if links == nil {
		links = r.SocialLinksSnake
	}
	return entity.ProfileUpdate{
		Name:            r.Name,
		AdmissionNumber: firstSet(r.AdmissionNumber, r.AdmissionNumberSnake),
		Year:            r.Year,
		Domain:          r.Domain,
		PhoneNumber:     firstSet(r.PhoneNumber, r.PhoneNumberSnake),
		Photo:           r.Photo,
		Resume:          r.Resume,
		SocialLinks:     links,
	}
}

// GetProfile GET /api/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// UpdateProfile PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.changes())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

type uploadFunc func(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.Profile, error)

// UploadPhoto POST /api/users/me/photo (multipart field "file")
func (h *UserHandler) UploadPhoto(c *gin.Context) { h.upload(c, h.Svc.UploadPhoto, "photo updated") }

// UploadResume POST /api/users/me/resume (multipart field "file")
func (h *UserHandler) UploadResume(c *gin.Context) { h.upload(c, h.Svc.UploadResume, "resume updated") }

func (h *UserHandler) upload(c *gin.Context, fn uploadFunc, msg string) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is unreadable", nil)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := fn(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, msg, nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	out, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "search results", gin.H{"count": len(out)})
}

// Delete DELETE /api/users/:id
// The caller may only delete their own account. On success the cookie is
// cleared and the token used for the request is revoked.
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.Accounts.DeleteAccount(ctx, c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	if err := h.Accounts.Logout(ctx, middleware.BearerToken(c)); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("revoke token after delete failed")
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted successfully", nil)
}
