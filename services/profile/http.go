package profile

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camels-app/availability-sync/pkg/auth"
	"github.com/camels-app/availability-sync/pkg/faults"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PATCH(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service *ProfileService

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	sameUser := auth.RequireRole(true, auth.RoleAdmin)
	r.GET("/:id", sameUser, h.getHandler)
	r.PATCH("/:id", sameUser, h.patchHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) getHandler(c *gin.Context) {
	data, err := h.Service.Get(c, c.Param("id"))
	if err != nil {
		abortWithError(c, err, "could not get profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": data})
}

func (h *httpHandler) patchHandler(c *gin.Context) {
	var req struct {
		Type map[string]interface{} `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.PatchType(c, c.Param("id"), req.Type); err != nil {
		abortWithError(c, err, "could not update profile")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"type": req.Type})
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
