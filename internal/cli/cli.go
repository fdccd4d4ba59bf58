// Package cli implements namazctl, the operator tool for subscriptions,
// admin tokens and manual scheduler runs.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// Env holds what the commands act on
type Env struct {
	Subscriptions domain.SubscriptionRepository
	Tokens        domain.TokenService
	Jobs          domain.SchedulerService
	Close         func()
}

// EnvFactory builds an Env from the config file at path
type EnvFactory func(path string) (*Env, error)

// Options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config      string          `short:"f" long:"config" description:"config YAML path" default:"config/config.yml"`
	Subscribe   *SubscribeCmd   `command:"subscribe" description:"Subscribe a user to the daily digest"`
	Unsubscribe *UnsubscribeCmd `command:"unsubscribe" description:"Remove a user from the daily digest"`
	List        *ListCmd        `command:"list" description:"List digest subscribers"`
	Token       *TokenCmd       `command:"token" description:"Issue an admin API token"`
	Tick        *TickCmd        `command:"tick" description:"Run one scheduler job now"`

	factory EnvFactory
	out     io.Writer
	env     *Env
}

// Init instantiates every sub-command bound to o, so global flags may come
// before the command name
func (o *Options) Init() {
	o.Subscribe = &SubscribeCmd{root: o}
	o.Unsubscribe = &UnsubscribeCmd{root: o}
	o.List = &ListCmd{root: o}
	o.Token = &TokenCmd{root: o}
	o.Tick = &TickCmd{root: o}
}

func (o *Options) resolve() (*Env, error) {
	if o.env != nil {
		return o.env, nil
	}
	env, err := o.factory(o.Config)
	if err != nil {
		return nil, err
	}
	o.env = env
	return env, nil
}

// Run parses args and executes the selected command
func Run(args []string, factory EnvFactory, out io.Writer) error {
	opts := &Options{factory: factory, out: out}
	opts.Init()
	defer func() {
		if opts.env != nil && opts.env.Close != nil {
			opts.env.Close()
		}
	}()

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

type userArg struct {
	UserID string `positional-arg-name:"user" description:"WhatsApp number without the whatsapp: prefix"`
}

// SubscribeCmd adds a digest subscriber
type SubscribeCmd struct {
	Args userArg `positional-args:"yes" required:"yes"`
	root *Options
}

func (c *SubscribeCmd) Execute(_ []string) error {
	env, err := c.root.resolve()
	if err != nil {
		return err
	}
	if err := env.Subscriptions.Subscribe(context.Background(), c.Args.UserID); err != nil {
		return err
	}
	fmt.Fprintf(c.root.out, "subscribed %s\n", c.Args.UserID)
	return nil
}

// UnsubscribeCmd removes a digest subscriber
type UnsubscribeCmd struct {
	Args userArg `positional-args:"yes" required:"yes"`
	root *Options
}

func (c *UnsubscribeCmd) Execute(_ []string) error {
	env, err := c.root.resolve()
	if err != nil {
		return err
	}
	if err := env.Subscriptions.Unsubscribe(context.Background(), c.Args.UserID); err != nil {
		return err
	}
	fmt.Fprintf(c.root.out, "unsubscribed %s\n", c.Args.UserID)
	return nil
}

// ListCmd prints digest subscribers, one per line
type ListCmd struct {
	root *Options
}

func (c *ListCmd) Execute(_ []string) error {
	env, err := c.root.resolve()
	if err != nil {
		return err
	}
	ids, err := env.Subscriptions.List(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(c.root.out, id)
	}
	return nil
}

// TokenCmd prints a signed admin token
type TokenCmd struct {
	Subject string `short:"s" long:"subject" description:"token subject" default:"operator"`
	Role    string `short:"r" long:"role" description:"casbin role" choice:"admin" choice:"viewer" default:"admin"`
	root    *Options
}

func (c *TokenCmd) Execute(_ []string) error {
	env, err := c.root.resolve()
	if err != nil {
		return err
	}
	token, err := env.Tokens.GenerateAccessToken(c.Subject, c.Role)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.root.out, token)
	return nil
}

// TickCmd runs a scheduler job once
type TickCmd struct {
	Args struct {
		Job string `positional-arg-name:"job" description:"reminders, digest or prayer"`
	} `positional-args:"yes" required:"yes"`
	root *Options
}

func (c *TickCmd) Execute(_ []string) error {
	env, err := c.root.resolve()
	if err != nil {
		return err
	}
	jobs := map[string]func(context.Context) error{
		"reminders": env.Jobs.RunReminderTick,
		"digest":    env.Jobs.RunDigestTick,
		"prayer":    env.Jobs.RunPrayerReminderTick,
	}
	run, ok := jobs[c.Args.Job]
	if !ok {
		return fmt.Errorf("unknown job %q", c.Args.Job)
	}
	if err := run(context.Background()); err != nil {
		return fmt.Errorf("%s: %w", c.Args.Job, err)
	}
	fmt.Fprintf(c.root.out, "%s done\n", c.Args.Job)
	return nil
}
