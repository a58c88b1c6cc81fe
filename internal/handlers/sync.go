package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/echo-cqy/codeling/pkg/errors"
	"github.com/echo-cqy/codeling/pkg/logger"
)

func syncError(c *gin.Context, err error, fallback string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	logger.Error().Err(err).Msg(fallback)
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}

// BindRemote is the sign-in transition: snapshot local state, bind the token's
// user, pull the remote snapshot. When remote is empty and the device has
// progress, the response flags the one-time migration offer.
func BindRemote(c *gin.Context) {
	userID := c.GetString("userId")

	result, err := store.BindAndPull(c.Request.Context(), userID)
	if err != nil {
		syncError(c, err, "Failed to bind remote user")
		return
	}

	invalidateQuestionsCache()
	logger.Info().
		Str("user_id", userID).
		Bool("migration_available", result.MigrationAvailable).
		Msg("Remote user bound")
	c.JSON(http.StatusOK, result)
}

// Migrate pushes the snapshot captured at bind time, then re-pulls so local
// state mirrors exactly what remote now holds.
func Migrate(c *gin.Context) {
	summary, err := store.Migrate(c.Request.Context())
	if err != nil {
		syncError(c, err, "Migration failed")
		return
	}
	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"pull": summary})
}

// SkipMigration discards the held snapshot; local data stays local.
func SkipMigration(c *gin.Context) {
	store.SkipMigration()
	c.JSON(http.StatusOK, gin.H{"message": "Migration skipped"})
}

// UnbindRemote is the sign-out transition. Local data is kept; only the
// remote binding is dropped.
func UnbindRemote(c *gin.Context) {
	if err := store.SetRemoteUserID(""); err != nil {
		syncError(c, err, "Failed to unbind remote user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Remote user unbound"})
}

// PullRemote re-runs the merge on demand, for a manual refresh.
func PullRemote(c *gin.Context) {
	summary, err := store.PullRemote(c.Request.Context())
	if err != nil {
		syncError(c, err, "Failed to pull remote data")
		return
	}
	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"pull": summary})
}

// SyncStatus reports the binding and pending-migration state.
func SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"remoteConfigured": db != nil,
		"migrationPending": store.MigrationPending(),
	})
}
