package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verify2FARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	TwoFACode      string `json:"2FACode"`
}

type deleteAccountRequest struct {
	Email string `json:"email"`
}

type captchaRequest struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type twoFactorResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

type refreshResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type captchaResponse struct {
	Success bool `json:"success"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondMalformed(c, err)
		return
	}

	if err := s.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Requires2FA); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, messageResponse{Message: "User created successfully!"})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondMalformed(c, err)
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if res.Requires2FA() {
		c.JSON(http.StatusPartialContent, twoFactorResponse{
			Message:        "2FA required",
			LoginAttemptID: res.LoginAttemptID.String(),
		})
		return
	}

	s.setTokenCookies(c, res.Tokens)
	c.Status(http.StatusOK)
}

func (s *HTTPServer) verify2FA(c *gin.Context) {
	var req verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondMalformed(c, err)
		return
	}

	tokens, err := s.auth.Verify2FA(c.Request.Context(), req.Email, req.LoginAttemptID, req.TwoFACode)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setTokenCookies(c, tokens)
	c.Status(http.StatusOK)
}

func (s *HTTPServer) logout(c *gin.Context) {
	// a missing cookie yields an empty token
	token, _ := c.Cookie(common.AccessTokenCookieName)

	if err := s.auth.Logout(c.Request.Context(), token); err != nil {
		s.respondError(c, err)
		return
	}

	s.clearAccessCookie(c)
	c.Status(http.StatusOK)
}

func (s *HTTPServer) refreshToken(c *gin.Context) {
	// a missing cookie yields an empty token
	token, _ := c.Cookie(common.RefreshTokenCookieName)

	tokens, err := s.auth.RefreshToken(c.Request.Context(), token)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setTokenCookies(c, tokens)
	c.JSON(http.StatusOK, refreshResponse{
		Message:      "Tokens refreshed successfully",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) deleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondMalformed(c, err)
		return
	}

	if err := s.auth.DeleteAccount(c.Request.Context(), req.Email); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) verifyCaptcha(c *gin.Context) {
	var req captchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondMalformed(c, err)
		return
	}
	if req.Token == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Missing token"})
		return
	}

	ok, err := s.captcha.Verify(c.Request.Context(), req.Token, c.ClientIP())
	if err != nil {
		s.logger.Error(c.Request.Context(), "captcha verification failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: common.PublicMessage(common.ErrorInternal)})
		return
	}

	c.JSON(http.StatusOK, captchaResponse{Success: ok})
}
