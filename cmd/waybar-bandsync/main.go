package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/app"
	"github.com/shulck/Band-Sync3-sub001/internal/config"
	"github.com/shulck/Band-Sync3-sub001/internal/log"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	if err := app.Run(ctx, args, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// commandContext bounds one-shot commands by the configured timeout; watch
// runs until interrupted.
func commandContext(args []string, cfg config.Runtime) (context.Context, context.CancelFunc) {
	if len(args) > 0 && args[0] == "watch" {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}

	timeout := cfg.Timeout + 5*time.Second
	if timeout < 10*time.Second {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func printUsage() {
	fmt.Println(app.Usage)
}
