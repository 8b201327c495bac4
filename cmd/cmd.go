package cmd

import (
	"context"
	"davexport/internal/config"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

type command func(ctx context.Context) error

type commandRegistry map[string]command

var commands = commandRegistry{
	"noop":   noopCmd,
	"export": exportCmd,
	"watch":  watchCmd,
}

func Run() {
	cmd := config.Gist().String(config.CMD)
	cmdFn, ok := commands[cmd]
	if !ok {
		help()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmdFn(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: davexport --cmd [command] [flags]")
	fmt.Println("Commands: export, watch, noop")
	fmt.Println("Example: davexport --cmd export --source json --json.path dump.json --target.dir /tmp/dav-export")
	fmt.Println("Config params (name|required|default):\v")
	fmt.Println(config.Sprint())
}
