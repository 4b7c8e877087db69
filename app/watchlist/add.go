// Package watchlist implements the watchlist CRUD endpoints.
package watchlist

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addBody struct {
	MediaID    string `json:"mediaId"`
	MediaTitle string `json:"mediaTitle"`
	PosterPath string `json:"posterPath"`
	MediaType  string `json:"mediaType"`
}

func Add(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data addBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))
		return
	}

	if data.MediaID == "" || data.MediaTitle == "" {
		httperr.Abort(c, httperr.Validation("Media id and title are required"))
		return
	}

	if data.MediaType != model.MediaTypeMovie && data.MediaType != model.MediaTypeTV {
		httperr.Abort(c, httperr.Validation("Media type must be 'movie' or 'tv'"))
		return
	}

	entry := &model.WatchlistEntry{
		UserID:     user.ID,
		MediaID:    data.MediaID,
		MediaTitle: data.MediaTitle,
		PosterPath: data.PosterPath,
		MediaType:  data.MediaType,
	}

	if err := d.Watchlist.Add(entry); err != nil {
		if err == store.ErrAlreadyListed {
			httperr.Abort(c, httperr.Conflict(label(data.MediaType)+" already in watchlist"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Error adding to watchlist", err))

		zap.L().Error("Failed to add watchlist entry", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": label(data.MediaType) + " added to watchlist",
		"data":    entry,
	})
}

func label(mediaType string) string {
	if mediaType == model.MediaTypeMovie {
		return "Movie"
	}

	return "TV show"
}
