package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *router) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.respondError(c, errMalformedBody)
		return
	}

	if err := r.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Check your email for verification code."})
}

func (r *router) verifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.respondError(c, errMalformedBody)
		return
	}

	if err := r.accounts.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (r *router) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.respondError(c, errMalformedBody)
		return
	}

	result, err := r.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user": userResponse{
			ID:    result.Reader.ReaderID,
			Name:  result.Reader.Name,
			Email: result.Reader.Email,
			Role:  result.Reader.Role,
		},
	})
}
