package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/gateway"
)

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(auth AuthGateway, sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
			return
		}

		user, err := auth.Login(c.Request.Context(), gateway.LoginInput{
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			failJSON(c, err, "login failed")
			return
		}

		issueSession(c, sessions, user)
	}
}

func registerHandler(auth AuthGateway, sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in registerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password required"})
			return
		}

		user, err := auth.Register(c.Request.Context(), gateway.RegisterInput{
			Name:     in.Name,
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			failJSON(c, err, "registration failed")
			return
		}

		issueSession(c, sessions, user)
	}
}

func issueSession(c *gin.Context, sessions SessionService, user *domain.User) {
	token, err := sessions.Issue(c.Request.Context(), *user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return
	}
	c.SetCookie(sessionCookie, token, sessions.TTLSeconds(), "/", "", false, true)
	c.JSON(http.StatusOK, user)
}

func logoutHandler(sessions SessionService, carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		if err := sessions.Revoke(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "logout failed"})
			return
		}
		if user := currentUser(c); user != nil {
			carts.Evict(user.ID)
		}
		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}
