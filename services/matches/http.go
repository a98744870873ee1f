package matches

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camels-app/availability-sync/pkg/auth"
	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/repos/matchstore"
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

// Availability is the interface for the match availability service.
type Availability interface {
	Create(ctx context.Context, req CreateMatchRequest) (matchstore.Match, error)
	Patch(ctx context.Context, id string, req PatchMatchRequest) error
	PatchMemberStatus(ctx context.Context, matchID, memberID string, st matchstore.Status) error
	Get(ctx context.Context, id string) (matchstore.Match, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, dir matchstore.Direction) ([]matchstore.Match, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Availability

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.POST("", auth.RequireRole(false, auth.RoleAdmin), h.createHandler)
	r.GET("", auth.RequireRole(false, auth.RoleAdmin, auth.RoleUser), h.listHandler)
	r.GET("/:id", auth.RequireRole(false, auth.RoleAdmin, auth.RoleUser), h.getHandler)
	r.PATCH("/:id", auth.RequireRole(false, auth.RoleAdmin), h.patchHandler)
	r.PATCH("/:id/status", auth.RequireRole(false, auth.RoleAdmin, auth.RoleUser), h.statusHandler)
	r.DELETE("/:id", auth.RequireRole(false, auth.RoleAdmin), h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) createHandler(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	match, err := h.Service.Create(c, req)
	if err != nil {
		abortWithError(c, err, "could not create match")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Created match details for " + match.Date + " at " + match.Venue,
		"id":      match.ID,
	})
}

func (h *httpHandler) listHandler(c *gin.Context) {
	dir := matchstore.Ascending
	if c.Query("order") == "desc" {
		dir = matchstore.Descending
	}

	matches, err := h.Service.List(c, dir)
	if err != nil {
		abortWithError(c, err, "could not list matches")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  matches,
		"count": len(matches),
	})
}

func (h *httpHandler) getHandler(c *gin.Context) {
	match, err := h.Service.Get(c, c.Param("id"))
	if err != nil {
		abortWithError(c, err, "could not get match")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": match})
}

func (h *httpHandler) patchHandler(c *gin.Context) {
	var req PatchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.Patch(c, c.Param("id"), req); err != nil {
		abortWithError(c, err, "could not update match")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"message": "Updated match details"})
}

func (h *httpHandler) statusHandler(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		c.Abort()
		return
	}

	st, err := matchstore.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	if err := h.Service.PatchMemberStatus(c, c.Param("id"), req.UID, st); err != nil {
		abortWithError(c, err, "could not update member status")
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"message": "Updated match details"})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("id")); err != nil {
		abortWithError(c, err, "could not delete match")
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
