package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerEmailRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type patientResponse struct {
	ID            string `json:"id"`
	PatientNo     string `json:"patient_no"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone"`
	EmailVerified bool   `json:"email_verified"`
}

func toPatientResponse(p *identity.Patient) patientResponse {
	resp := patientResponse{
		ID:            p.ID.String(),
		PatientNo:     p.PatientNo,
		Name:          p.Name,
		Phone:         p.Phone,
		EmailVerified: p.EmailVerified,
	}
	if p.Email != nil {
		resp.Email = *p.Email
	}
	return resp
}

func (h *AuthHandler) RegisterEmail(c *gin.Context) {
	var req registerEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.authSvc.RegisterEmail(c.Request.Context(), &identity.RegisterPatientCommand{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPatientResponse(p))
}

type loginEmailRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token   *service.TokenResult `json:"token"`
	Patient patientResponse      `json:"patient"`
}

func (h *AuthHandler) LoginEmail(c *gin.Context) {
	var req loginEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	token, p, err := h.authSvc.LoginEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, loginResponse{Token: token, Patient: toPatientResponse(p)})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"verified": true})
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"sent": true})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	// Same response whether or not the address exists.
	respondOK(c, gin.H{"sent": true})
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"reset": true})
}

type loginExternalRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (h *AuthHandler) LoginExternal(c *gin.Context) {
	var req loginExternalRequest
	if !bindJSON(c, &req) {
		return
	}

	token, p, err := h.authSvc.LoginExternal(c.Request.Context(), req.IDToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, loginResponse{Token: token, Patient: toPatientResponse(p)})
}

type loginAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req loginAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	token, a, err := h.authSvc.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"token": token,
		"admin": gin.H{
			"id":       a.ID.String(),
			"username": a.Username,
			"name":     a.Name,
			"role":     a.Role,
		},
	})
}
