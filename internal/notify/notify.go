// Package notify sends desktop notifications over the session bus.
package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = notificationsService + ".Notify"
)

const appName = "waybar-bandsync"

// Caller is the part of a dbus object Client needs.
type Caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type Client struct {
	conn   *dbus.Conn
	object Caller
	icon   string
}

func New(ctx context.Context, icon string) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return &Client{
		conn:   conn,
		object: conn.Object(notificationsService, dbus.ObjectPath(notificationsPath)),
		icon:   icon,
	}, nil
}

// NewWithCaller builds a Client on an existing bus object.
func NewWithCaller(object Caller, icon string) *Client {
	return &Client{object: object, icon: icon}
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Notify shows summary and body and returns the server's notification id.
func (c *Client) Notify(ctx context.Context, summary, body string) (uint32, error) {
	hints := map[string]dbus.Variant{
		"category": dbus.MakeVariant("presence"),
	}

	var id uint32
	call := c.object.CallWithContext(ctx, notifyMethod, 0,
		appName, uint32(0), c.icon, summary, body, []string{}, hints, int32(-1))
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}
