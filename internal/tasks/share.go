package tasks

import (
	"context"
	"fmt"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/shared"
)

// Share creates a public share link for playlist and announces its URL.
func Share(ctx context.Context, sharer Sharer, notifier notify.Notifier, playlist models.Playlist, description string) (*models.Share, error) {
	if sharer == nil {
		return nil, fmt.Errorf("%w: sharing not available", shared.ErrServiceUnavailable)
	}

	share, err := sharer.CreateShare(ctx, playlist, description)
	if err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", playlist.Name, err)
	}

	if notifier != nil {
		notifier.Notify(notify.New(notify.ShareSuccess, notify.Success, "url", share.URL))
	}
	return share, nil
}
