package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/auth"
	"github.com/AnhKhoa14/bakery/internal/models"
	"github.com/AnhKhoa14/bakery/internal/store"
)

const (
	verifyCodeTTL = 15 * time.Minute
	resetTokenTTL = time.Hour
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.stores.Users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		// Anything but a clean miss means the duplicate check did not run.
		s.fail(c, err, "", "Registration failed")
		return
	}

	role, err := s.stores.Users.RoleByName(ctx, models.RoleCustomer)
	if err != nil {
		log.Error().Err(err).Msg("default customer role missing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Default role not found"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(c, err, "", "Registration failed")
		return
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: hash,
		Role:     role.ID,
	}
	if err := s.stores.Users.Create(ctx, user); err != nil {
		s.fail(c, err, "", "Registration failed")
		return
	}

	// One-time verification code; delivery failure must not fail the signup.
	code := strings.ToUpper(uuid.NewString()[:6])
	if err := s.stores.Users.SetVerifyCode(ctx, user.ID, code, time.Now().Add(verifyCodeTTL)); err != nil {
		log.Error().Err(err).Str("user", user.ID.Hex()).Msg("failed to store verify code")
	} else if err := s.mailer.SendVerificationCode(user.Email, user.FullName, code); err != nil {
		log.Error().Err(err).Str("user", user.ID.Hex()).Msg("failed to send verification mail")
	}

	token, err := s.codec.Issue(user.ID.Hex(), role.Name)
	if err != nil {
		s.fail(c, err, "", "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID.Hex(),
			"username": user.Username,
			"fullName": user.FullName,
			"email":    user.Email,
			"role":     role.Name,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := s.stores.Users.FindByEmail(ctx, req.Email)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	role, err := s.stores.Users.RoleByID(ctx, user.Role)
	if err != nil {
		s.fail(c, err, "Role not found", "Login failed")
		return
	}

	token, err := s.codec.Issue(user.ID.Hex(), role.Name)
	if err != nil {
		s.fail(c, err, "", "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID.Hex(),
			"fullName": user.FullName,
			"email":    user.Email,
		},
	})
}

func (s *Server) refreshToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	claims, err := s.codec.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	if _, err := s.stores.Users.FindByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	token, err := s.codec.Issue(claims.Subject, claims.Role)
	if err != nil {
		s.fail(c, err, "", "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// logout is a no-op server-side: tokens are not revocable, the client just
// discards its copy.
func (s *Server) logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token := uuid.NewString()
	user, err := s.stores.Users.SetResetToken(c.Request.Context(), req.Email, token, time.Now().Add(resetTokenTTL))
	if err != nil {
		s.fail(c, err, "User not found", "Failed to start password reset")
		return
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.FullName, token); err != nil {
		log.Error().Err(err).Str("user", user.ID.Hex()).Msg("failed to send reset mail")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(c, err, "", "Failed to reset password")
		return
	}

	if err := s.stores.Users.ResetPassword(c.Request.Context(), req.Token, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
			return
		}
		s.fail(c, err, "", "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (s *Server) verifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := s.stores.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		s.fail(c, err, "User not found", "Failed to verify account")
		return
	}

	if err := s.stores.Users.MarkVerified(ctx, user.ID, req.Code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired verification code"})
			return
		}
		s.fail(c, err, "", "Failed to verify account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully"})
}

func (s *Server) me(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(auth.SubjectID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		s.fail(c, err, "User not found", "Failed to load profile")
		return
	}

	roleName := c.GetString(auth.ContextRole)
	if role, err := s.stores.Users.RoleByID(ctx, user.Role); err == nil {
		roleName = role.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID.Hex(),
		"username":   user.Username,
		"fullName":   user.FullName,
		"email":      user.Email,
		"phone":      user.Phone,
		"address":    user.Address,
		"role":       roleName,
		"isVerified": user.IsVerified,
	})
}
