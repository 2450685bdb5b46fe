package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeCaller struct {
	method string
	args   []interface{}
	reply  uint32
	err    error
}

func (f *fakeCaller) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err, Body: []interface{}{f.reply}}
}

func TestNotify_SendsFreedesktopArguments(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{reply: 42}
	client := NewWithCaller(caller, "audio-x-generic")

	id, err := client.Notify(context.Background(), "Gig in 30m", "Club show")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected id %d", id)
	}
	if caller.method != "org.freedesktop.Notifications.Notify" {
		t.Fatalf("unexpected method %q", caller.method)
	}
	if len(caller.args) != 8 {
		t.Fatalf("expected 8 arguments, got %d", len(caller.args))
	}
	if caller.args[0] != appName || caller.args[2] != "audio-x-generic" || caller.args[3] != "Gig in 30m" {
		t.Fatalf("unexpected arguments %v", caller.args)
	}
}

func TestNotify_PropagatesCallError(t *testing.T) {
	t.Parallel()

	client := NewWithCaller(&fakeCaller{err: errors.New("no server")}, "")
	if _, err := client.Notify(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected an error")
	}
}
