package selector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var ErrSelectionCancelled = errors.New("group selection cancelled")

// SelectGroup asks the user to pick one band group with a zenity dialog.
func SelectGroup(ctx context.Context, groups []string, current string) (string, error) {
	if len(groups) == 0 {
		return "", fmt.Errorf("no band groups in the event store")
	}

	if !hasGraphicalSession() {
		return "", fmt.Errorf("group selection requires a graphical session")
	}

	if _, err := exec.LookPath("zenity"); err != nil {
		return "", fmt.Errorf("zenity is required for group selection")
	}

	cmd := exec.CommandContext(ctx, "zenity", zenityArgs(groups, current)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrSelectionCancelled
		}
		return "", fmt.Errorf("zenity selector failed: %w", err)
	}

	selected := parseSelectionOutput(string(out))
	if selected == "" {
		return "", ErrSelectionCancelled
	}
	return selected, nil
}

func hasGraphicalSession() bool {
	return strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" || strings.TrimSpace(os.Getenv("DISPLAY")) != ""
}

func zenityArgs(groups []string, current string) []string {
	args := []string{
		"--list",
		"--radiolist",
		"--title=Band Sync",
		"--text=Select the band whose schedule the module shows",
		"--modal",
		"--width=480",
		"--height=420",
		"--print-column=2",
		"--column=Use",
		"--column=Band",
	}

	for _, group := range groups {
		checked := "FALSE"
		if group == current {
			checked = "TRUE"
		}
		args = append(args, checked, group)
	}
	return args
}

func parseSelectionOutput(raw string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == '\n' || r == '|'
	})
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			return value
		}
	}
	return ""
}
