package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/internal/application"
	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	"github.com/oksasatya/recruitment-accounts/internal/interface/middleware"
	"github.com/oksasatya/recruitment-accounts/pkg/response"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

// AuthFlows is the part of the auth core the HTTP layer drives.
type AuthFlows interface {
	Signup(ctx context.Context, in application.SignupInput) (*entity.Profile, error)
	Login(ctx context.Context, email, password string) (*application.AuthResult, error)
	GoogleAuth(ctx context.Context, a application.GoogleAssertion) (*application.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Svc    AuthFlows
	Logger *logrus.Logger
}

func NewAuthHandler(svc AuthFlows, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// signupRequest takes camelCase keys; snake_case spellings, as used in
// profile responses, are accepted too.
type signupRequest struct {
	Name            string `json:"name" binding:"omitempty,max=120"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"pwdlen"`
	AdmissionNumber string `json:"admissionNumber" binding:"max=64"`
	Year            string `json:"year" binding:"max=16"`
	Domain          string `json:"domain" binding:"max=64"`

	AdmissionNumberSnake string `json:"admission_number" binding:"max=64"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"pwdlen"`
}

type googleRequest struct {
	Name       string `json:"name" binding:"max=120"`
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Password:        req.Password,
		AdmissionNumber: firstNonEmpty(req.AdmissionNumber, req.AdmissionNumberSnake),
		Year:            req.Year,
		Domain:          req.Domain,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": p.ID}, "user registered successfully", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.issued(c, res, "login successful")
}

// GoogleAuth POST /api/auth/google
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req googleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.GoogleAuth(c.Request.Context(), application.GoogleAssertion{
		Name:       req.Name,
		Email:      req.Email,
		Credential: req.Credential,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg := "login successful"
	if res.Created {
		msg = "account created"
	}
	h.issued(c, res, msg)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

// issued returns the profile and hands the token over in the Authorization header.
func (h *AuthHandler) issued(c *gin.Context, res *application.AuthResult, msg string) {
	c.Header("Authorization", "Bearer "+res.Token)
	response.Success(c, http.StatusOK, res.Profile, msg, gin.H{"expires_at": res.ExpiresAt})
}
