package user

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

type addGenresBody struct {
	Genres []model.Genre `json:"genres"`
}

// GenresAdd merges the submitted genres into the user's favorites,
// skipping any id already present.
func GenresAdd(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data addGenresBody
	if err := c.ShouldBind(&data); err != nil || len(data.Genres) == 0 {
		httperr.Abort(c, httperr.Validation("Please provide genres to add"))
		return
	}

	genres, err := d.Users.AddFavoriteGenres(user.ID, data.Genres)
	if err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.NotFound("User not found"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to add favorite genres", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Favorite genres updated successfully",
		"favoriteGenres": genres,
	})
}

func GenresList(c *gin.Context, d *internal.Deps) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favoriteGenres": user.FavoriteGenres,
	})
}

type removeGenreBody struct {
	GenreID *int `json:"genreId"`
}

func GenreRemove(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data removeGenreBody
	if err := c.ShouldBind(&data); err != nil || data.GenreID == nil {
		httperr.Abort(c, httperr.Validation("Genre ID is required"))
		return
	}

	genres, err := d.Users.RemoveFavoriteGenre(user.ID, *data.GenreID)
	if err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.NotFound("User not found"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to remove favorite genre", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Genre deleted successfully",
		"favoriteGenres": genres,
	})
}
