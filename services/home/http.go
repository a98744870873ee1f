package home

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camels-app/availability-sync/pkg/auth"
	"github.com/camels-app/availability-sync/pkg/faults"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Queries is the interface for the member-facing projections.
type Queries interface {
	NextUpcoming(ctx context.Context, memberID string) (*MatchView, error)
	UnreadCount(ctx context.Context, memberID string) (int, error)
	DetailsForMember(ctx context.Context, matchID, memberID string) (MatchView, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Queries

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	sameUser := auth.RequireRole(true, auth.RoleAdmin, auth.RoleUser)
	r.GET("/matches/upcoming/:uid", sameUser, h.upcomingHandler)
	r.GET("/matches/unreadCount/:uid", sameUser, h.unreadCountHandler)
	r.GET("/matches/details/:id/:uid", sameUser, h.detailsHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) upcomingHandler(c *gin.Context) {
	view, err := h.Service.NextUpcoming(c, c.Param("uid"))
	if err != nil {
		abortWithError(c, err, "could not get upcoming match")
		return
	}
	if view == nil {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match": view,
		"count": 1,
	})
}

func (h *httpHandler) unreadCountHandler(c *gin.Context) {
	count, err := h.Service.UnreadCount(c, c.Param("uid"))
	if err != nil {
		abortWithError(c, err, "could not count unread matches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *httpHandler) detailsHandler(c *gin.Context) {
	view, err := h.Service.DetailsForMember(c, c.Param("id"), c.Param("uid"))
	if err != nil {
		abortWithError(c, err, "could not get match details")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
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
