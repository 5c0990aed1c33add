package httpserver

import (
	"errors"
	"net/http"

	"herbstore/internal/domain"
	customersvc "herbstore/internal/service/customer"

	"github.com/gin-gonic/gin"
)

func signupHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		cust, err := customers.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": cust})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginHandler authenticates and binds the customer identity to the
// session, which triggers cart hydration (remote snapshot wins over
// local when non-empty).
func loginHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		cust, access, refresh, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		if sess := sessionFrom(c); sess != nil {
			id := cust.ID
			sess.Identity.Set(&id)
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":     cust,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    customers.AccessTTLSeconds(),
		})
	}
}

// logoutHandler revokes the token and unbinds the identity; the cart
// falls back to the session's local copy.
func logoutHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if err := customers.Logout(c.Request.Context(), token); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
				return
			}
		}
		if sess := sessionFrom(c); sess != nil {
			sess.Identity.Set(nil)
		}
		c.Status(http.StatusNoContent)
	}
}
