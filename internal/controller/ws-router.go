package controller

import (
	"github.com/watchalong/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.loggerWSMw())

	// membership
	mux.Handle("join-room", c.handleJoinRoom)

	// playback
	mux.Handle("host-action", c.handleHostAction)
	mux.Handle("timeUpdate", c.handleTimeUpdate)
	mux.Handle("seek", c.handleSeek)

	// annotations & canvas
	mux.Handle("add-annotation", c.handleAddAnnotation)
	mux.Handle("update-annotation", c.handleUpdateAnnotation)
	mux.Handle("delete-annotation", c.handleDeleteAnnotation)
	mux.Handle("clear-canvas", c.handleClearCanvas)

	// clock sync
	mux.Handle("ping", c.handlePing)

	return mux
}
