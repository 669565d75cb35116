package services

import (
	"context"
	"time"

	"biomed-system/pkg/constants"
	"biomed-system/pkg/utils"
)

// Clock returns the current instant. Services read "now" only through it.
type Clock func() time.Time

// localToday is now expressed in loc; loc nil means UTC.
func localToday(clock Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}

// actorFromContext returns the authenticated user id, or the system actor for
// calls that did not come through the HTTP auth middleware.
func actorFromContext(ctx context.Context) string {
	if userID, err := utils.GetUserIDFromCtx(ctx); err == nil {
		return userID
	}
	return constants.SystemActor
}
