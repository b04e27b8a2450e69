package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/c2fo/remotestore"
)

const (
	flagConfig      = "config"
	flagLocation    = "location"
	flagPath        = "path"
	flagToken       = "token"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagMetricsAddr = "metrics-addr"
)

var errArgs = errors.New("wrong number of arguments")

func newApp(ctx context.Context, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "remotestore"
	app.Usage = "Uploads, downloads and manages repository files on a remote store"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   flagConfig,
			Usage:  "YAML settings file, ie ~/.remotestore.yaml",
			EnvVar: "REMOTESTORE_CONFIG",
		},
		cli.StringFlag{
			Name:  flagLocation,
			Usage: "store location URI, ie dbx:/// or s3://bucket",
		},
		cli.StringFlag{
			Name:  flagPath,
			Usage: "repository root, replaces the path of the location",
		},
		cli.StringFlag{
			Name:  flagToken,
			Usage: "access token handed to the backend",
		},
		cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "debug, info, warn or error",
		},
		cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "json or console",
		},
		cli.StringFlag{
			Name:  flagMetricsAddr,
			Usage: "serve Prometheus metrics on this address while the command runs",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "init",
			Usage: "connect and create the repository folders",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "create", Usage: "create the repository root when it does not exist"},
			},
			Action: withStore(ctx, runInit),
		},
		{
			Name:      "upload",
			Usage:     "upload a local file",
			ArgsUsage: "<local> <category> <name>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "subpath", Usage: "folder below the category folder"},
			},
			Action: withStore(ctx, runUpload),
		},
		{
			Name:      "download",
			Usage:     "download a remote file",
			ArgsUsage: "<category> <name> <local>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "subpath", Usage: "folder below the category folder"},
			},
			Action: withStore(ctx, runDownload),
		},
		{
			Name:      "rm",
			Usage:     "delete a remote file",
			ArgsUsage: "<category> <name>",
			Action:    withStore(ctx, runDelete),
		},
		{
			Name:      "mv",
			Usage:     "rename a remote file",
			ArgsUsage: "<category> <source> <target>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "target-category", Usage: "category of the target, defaults to the source category"},
			},
			Action: withStore(ctx, runMove),
		},
		{
			Name:      "ls",
			Usage:     "list the files of a category",
			ArgsUsage: "<category>",
			Action:    withStore(ctx, runList),
		},
		{
			Name:      "mkdir",
			Usage:     "create a folder below the repository root",
			ArgsUsage: "<path>",
			Action:    withStore(ctx, runMkdir),
		},
		{
			Name:   "probe",
			Usage:  "check the repository root can be used",
			Action: withStore(ctx, runProbe),
		},
		{
			Name:   "clean-temp",
			Usage:  "remove the leftovers of interrupted uploads",
			Action: withStore(ctx, runCleanTemp),
		},
	}
	return app
}

type storeAction func(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error

// withStore opens a session for the duration of action.
func withStore(ctx context.Context, action storeAction) func(c *cli.Context) error {
	return func(c *cli.Context) (err error) {
		sess, err := openSession(ctx, c)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, sess.close(ctx))
		}()
		return action(ctx, c, sess.store)
	}
}

func runInit(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if err := store.Init(ctx, c.Bool("create")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.App.Writer, "initialized %s\n", store.Layout().Root())
	return err
}

func runUpload(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 3 {
		return usageError(c)
	}
	f, err := remoteFile(c.Args().Get(1), c.Args().Get(2), c.String("subpath"))
	if err != nil {
		return err
	}
	return store.Upload(ctx, c.Args().Get(0), f)
}

func runDownload(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 3 {
		return usageError(c)
	}
	f, err := remoteFile(c.Args().Get(0), c.Args().Get(1), c.String("subpath"))
	if err != nil {
		return err
	}
	return store.Download(ctx, f, c.Args().Get(2))
}

func runDelete(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 2 {
		return usageError(c)
	}
	f, err := remoteFile(c.Args().Get(0), c.Args().Get(1), "")
	if err != nil {
		return err
	}
	if _, err := store.Delete(ctx, f); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "deleted %s\n", f)
	return err
}

func runMove(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 3 {
		return usageError(c)
	}
	targetCategory := c.String("target-category")
	if targetCategory == "" {
		targetCategory = c.Args().Get(0)
	}
	source, err := remoteFile(c.Args().Get(0), c.Args().Get(1), "")
	if err != nil {
		return err
	}
	target, err := remoteFile(targetCategory, c.Args().Get(2), "")
	if err != nil {
		return err
	}
	return store.Move(ctx, source, target)
}

func runList(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 1 {
		return usageError(c)
	}
	category, err := remotestore.ParseCategory(c.Args().Get(0))
	if err != nil {
		return err
	}
	files, err := store.List(ctx, category)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintln(c.App.Writer, name); err != nil {
			return err
		}
	}
	return nil
}

func runMkdir(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	if c.NArg() != 1 {
		return usageError(c)
	}
	if _, err := store.CreatePath(ctx, c.Args().Get(0)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.App.Writer, "created %s\n", c.Args().Get(0))
	return err
}

func runProbe(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	checks := []struct {
		label string
		check func(context.Context) bool
	}{
		{"target exists", store.TestTargetExists},
		{"target can be written", store.TestTargetCanWrite},
		{"target can be created", store.TestTargetCanCreate},
		{"repo file exists", store.TestRepoFileExists},
	}

	yes := color.New(color.FgGreen).SprintFunc()
	no := color.New(color.FgRed).SprintFunc()
	for _, chk := range checks {
		status := no("no")
		if chk.check(ctx) {
			status = yes("yes")
		}
		if _, err := fmt.Fprintf(c.App.Writer, "%-22s %s\n", chk.label+":", status); err != nil {
			return err
		}
	}
	return nil
}

func runCleanTemp(ctx context.Context, c *cli.Context, store *remotestore.RemoteStore) error {
	removed, err := store.CleanTemporary(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "removed %d temporary files\n", removed)
	return err
}

func remoteFile(category, name, subPath string) (remotestore.RemoteFile, error) {
	cat, err := remotestore.ParseCategory(category)
	if err != nil {
		return remotestore.RemoteFile{}, err
	}
	f, err := remotestore.NewRemoteFile(cat, name)
	if err != nil {
		return remotestore.RemoteFile{}, err
	}
	if subPath != "" {
		f = f.WithSubPath(subPath)
	}
	return f, nil
}

func usageError(c *cli.Context) error {
	return fmt.Errorf("%w: usage: %s %s %s", errArgs, c.App.Name, c.Command.Name, c.Command.ArgsUsage)
}
