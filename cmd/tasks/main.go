// Command tasks is a terminal client for the task API.
//
// Usage:
//
//	tasks login [--token TOKEN]
//	tasks list
//	tasks add TITLE...
//	tasks toggle ID
//	tasks rename ID TITLE...
//	tasks rm ID
//	tasks whoami
//	tasks logout [--all]
//
// IDs may be abbreviated to any unique prefix shown by "tasks list".
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configPath := flags.String("config", defaultConfigPath(), "path to the config file")
	baseURL := flags.String("base-url", "", "API base URL (saved on login)")
	flags.Usage = func() { printUsage(stdout, flags) }

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		printUsage(stdout, flags)
		return pflag.ErrHelp
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	c := &cli{
		configPath: *configPath,
		cfg:        cfg,
		in:         bufio.NewReader(stdin),
		out:        stdout,
	}

	name, rest := flags.Arg(0), flags.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd(c, ctx, rest)
}

var commands = map[string]func(*cli, context.Context, []string) error{
	"login":  (*cli).login,
	"logout": (*cli).logout,
	"whoami": (*cli).whoami,
	"list":   (*cli).list,
	"ls":     (*cli).list,
	"add":    (*cli).add,
	"toggle": (*cli).toggle,
	"rename": (*cli).rename,
	"rm":     (*cli).remove,
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: tasks [flags] COMMAND [ARGS]")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range []string{
		"login\tsign in with Google and store the session token",
		"logout [--all]\tend the session (or all of them) and forget the token",
		"whoami\tshow the signed-in user",
		"list\tshow your tasks",
		"add TITLE\tcreate a task",
		"toggle ID\tmark a task done or not done",
		"rename ID TITLE\tchange the title of a task",
		"rm ID\tdelete a task",
	} {
		fmt.Fprintln(tw, "  "+line)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, flags.FlagUsages())
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
