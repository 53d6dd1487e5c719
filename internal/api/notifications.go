package api

import (
	"context"
	"net/url"

	"github.com/saathghoomo/go-saath/internal/types"
)

type NotificationList struct {
	Notifications []types.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

func (c *Client) ListNotifications(ctx context.Context) (*NotificationList, error) {
	var resp NotificationList
	if err := c.get(ctx, "/notifications", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.patch(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.patch(ctx, "/notifications/mark-all-read", nil, nil)
}

// DeleteNotification removes a notification and returns the server's
// authoritative unread count, since the deleted item may have been unread.
func (c *Client) DeleteNotification(ctx context.Context, id string) (int, error) {
	var resp struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := c.delete(ctx, "/notifications/"+url.PathEscape(id), &resp); err != nil {
		return 0, err
	}

	return resp.UnreadCount, nil
}
