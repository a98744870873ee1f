package users

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camels-app/availability-sync/pkg/auth"
	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/repos/directory"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PATCH(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service *UsersService

	// The router instance to configure the HTTP routes.
	Router Router

	// Public takes the routes that must work without a session, like
	// invite-link signup.
	Public Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	opts.Public.POST("/signup", h.signupHandler)
	r.GET("/verifyIdToken", h.verifyHandler)
	r.POST("/invite", auth.RequireRole(false, auth.RoleAdmin), h.inviteHandler)
	r.GET("", auth.RequireRole(false, auth.RoleAdmin), h.listHandler)
	r.GET("/:id", auth.RequireRole(true, auth.RoleAdmin), h.getHandler)
	r.PATCH("/:id", auth.RequireRole(true, auth.RoleAdmin), h.patchHandler)
	r.PATCH("/:id/pushToken", auth.RequireRole(true, auth.RoleAdmin), h.pushTokenHandler)
	r.DELETE("/:id", auth.RequireRole(false, auth.RoleAdmin), h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) verifyHandler(c *gin.Context) {
	token := auth.MustToken(c)
	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"user": gin.H{
			"uid":  token.UID,
			"role": token.Claims["role"],
		},
	})
}

func (h *httpHandler) inviteHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.Invite(c, req.Email); err != nil {
		abortWithError(c, err, "could not send invite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite sent"})
}

func (h *httpHandler) signupHandler(c *gin.Context) {
	var req directory.NewMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	uid, err := h.Service.Signup(c, req)
	if err != nil {
		abortWithError(c, err, "could not sign up")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": uid})
}

func (h *httpHandler) listHandler(c *gin.Context) {
	members, err := h.Service.List(c)
	if err != nil {
		abortWithError(c, err, "could not list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": members})
}

func (h *httpHandler) getHandler(c *gin.Context) {
	member, err := h.Service.Get(c, c.Param("id"))
	if err != nil {
		abortWithError(c, err, "could not get user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": member})
}

func (h *httpHandler) patchHandler(c *gin.Context) {
	var req struct {
		DisplayName string `json:"displayName"`
		Role        int64  `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.Patch(c, c.Param("id"), req.DisplayName, req.Role); err != nil {
		abortWithError(c, err, "could not update user")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"message": "Updated user"})
}

func (h *httpHandler) pushTokenHandler(c *gin.Context) {
	var req struct {
		PushToken string `json:"pushToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.SetPushToken(c, c.Param("id"), req.PushToken); err != nil {
		abortWithError(c, err, "could not update push token")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"message": "Updated the push token"})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("id")); err != nil {
		abortWithError(c, err, "could not delete user")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func abortWithError(c *gin.Context, err error, msg string) {
	log.Printf("%s: %v\n", msg, err)
	status := faults.HTTPStatus(err)
	body := gin.H{"error": msg}
	if status != http.StatusInternalServerError {
		body = gin.H{"error": err.Error()}
	}
	c.JSON(status, body)
	c.Abort()
}
