package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/taskmanager/pkg/client"
	"github.com/dmitrymomot/taskmanager/pkg/query"
	"github.com/dmitrymomot/taskmanager/pkg/tasks"
)

// loginRedirect is an app-scheme target, so the server hands the token
// back in the redirect URL instead of a cookie.
const loginRedirect = "taskmanager://cli"

type cli struct {
	in         *bufio.Reader
	out        io.Writer
	configPath string
	cfg        cliConfig
}

func (c *cli) api(token string) (*client.Client, error) {
	opts := []client.Option{}
	if token != "" {
		opts = append(opts, client.WithBearerToken(token))
	}
	return client.New(c.cfg.BaseURL, opts...)
}

func (c *cli) authedAPI() (*client.Client, error) {
	if c.cfg.Token == "" {
		return nil, errNotLoggedIn
	}
	return c.api(c.cfg.Token)
}

// taskList loads the list into a fresh cache. Call the returned func when done.
func (c *cli) taskList(ctx context.Context) (*client.TaskList, func(), error) {
	api, err := c.authedAPI()
	if err != nil {
		return nil, nil, err
	}
	cache := query.New()
	list := client.NewTaskList(api, cache)
	if err := list.Refresh(ctx); err != nil {
		_ = cache.Close()
		return nil, nil, authError(err)
	}
	return list, func() { _ = cache.Close() }, nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
	token := flags.String("token", "", "session token to store instead of signing in")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		anon, err := c.api("")
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Open this URL in a browser and sign in with Google:\n\n  %s\n\n", anon.SignInURL(loginRedirect))
		fmt.Fprint(c.out, "Paste the URL you were redirected to: ")
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read token: %w", err)
		}
		*token = tokenFromInput(line)
		if *token == "" {
			return errors.New("no token given")
		}
	}

	api, err := c.api(*token)
	if err != nil {
		return err
	}
	info, err := api.Session(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return errors.New("the token was not accepted, sign in again")
		}
		return err
	}

	c.cfg.Token = *token
	if err := saveConfig(c.configPath, c.cfg); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", info.User.Email)
	return nil
}

// tokenFromInput accepts either the bare token or the whole redirect URL.
func tokenFromInput(line string) string {
	line = strings.TrimSpace(line)
	if u, err := url.Parse(line); err == nil && u.Scheme != "" {
		return u.Query().Get("token")
	}
	return line
}

func (c *cli) logout(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("logout", pflag.ContinueOnError)
	all := flags.Bool("all", false, "end every session of the account, on all devices")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if c.cfg.Token == "" {
		fmt.Fprintln(c.out, "Not signed in")
		return nil
	}
	api, err := c.authedAPI()
	if err != nil {
		return err
	}
	// An expired session is already gone on the server.
	signOut := api.SignOut
	if *all {
		signOut = api.SignOutAll
	}
	if err := signOut(ctx); err != nil && !client.IsUnauthorized(err) {
		return err
	}

	c.cfg.Token = ""
	if err := saveConfig(c.configPath, c.cfg); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami(ctx context.Context, _ []string) error {
	api, err := c.authedAPI()
	if err != nil {
		return err
	}
	info, err := api.Session(ctx)
	if err != nil {
		return authError(err)
	}
	fmt.Fprintf(c.out, "%s <%s>\n", info.User.Name, info.User.Email)
	return nil
}

func (c *cli) list(ctx context.Context, _ []string) error {
	list, done, err := c.taskList(ctx)
	if err != nil {
		return err
	}
	defer done()

	items := list.Tasks()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "No tasks")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, t := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(t.ID), checkbox(t.Completed), t.Title)
	}
	return tw.Flush()
}

func (c *cli) add(ctx context.Context, args []string) error {
	title := joinArgs(args)
	if title == "" {
		return errors.New("usage: tasks add TITLE")
	}
	list, done, err := c.taskList(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := list.Create(ctx, title).Wait(ctx); err != nil {
		return mutationError(err)
	}
	fmt.Fprintf(c.out, "Added %q\n", title)
	return nil
}

func (c *cli) toggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tasks toggle ID")
	}
	list, done, err := c.taskList(ctx)
	if err != nil {
		return err
	}
	defer done()

	task, err := findTask(list.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := list.Toggle(ctx, task.ID).Wait(ctx); err != nil {
		return mutationError(err)
	}
	fmt.Fprintf(c.out, "%s %s\n", checkbox(!task.Completed), task.Title)
	return nil
}

func (c *cli) rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: tasks rename ID TITLE")
	}
	title := joinArgs(args[1:])
	list, done, err := c.taskList(ctx)
	if err != nil {
		return err
	}
	defer done()

	task, err := findTask(list.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := list.Rename(ctx, task.ID, title).Wait(ctx); err != nil {
		return mutationError(err)
	}
	fmt.Fprintf(c.out, "Renamed %q to %q\n", task.Title, title)
	return nil
}

func (c *cli) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tasks rm ID")
	}
	list, done, err := c.taskList(ctx)
	if err != nil {
		return err
	}
	defer done()

	task, err := findTask(list.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := list.Delete(ctx, task.ID).Wait(ctx); err != nil {
		return mutationError(err)
	}
	fmt.Fprintf(c.out, "Deleted %q\n", task.Title)
	return nil
}

// findTask matches a full id or a unique prefix of one.
func findTask(items []tasks.Task, ref string) (tasks.Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		for _, t := range items {
			if t.ID == id {
				return t, nil
			}
		}
		return tasks.Task{}, fmt.Errorf("no task %s", ref)
	}

	var found []tasks.Task
	for _, t := range items {
		if strings.HasPrefix(t.ID.String(), ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return tasks.Task{}, fmt.Errorf("no task %s", ref)
	case 1:
		return found[0], nil
	default:
		return tasks.Task{}, fmt.Errorf("%q matches %d tasks, use a longer id", ref, len(found))
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func authError(err error) error {
	if client.IsUnauthorized(err) {
		return errors.New(`session expired, run "tasks login"`)
	}
	return err
}

// mutationError drops the cache wrapper; the local list was already restored.
func mutationError(err error) error {
	if client.IsUnauthorized(err) {
		return authError(err)
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		return errors.New(apiErr.Message)
	}
	return err
}
