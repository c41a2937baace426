package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	errs "github.com/jmgilman/go/errors"
	"github.com/urfave/cli/v2"
	"github.com/weberc2/simplefs/pkg/objectstore"
	"github.com/weberc2/simplefs/pkg/shell"
	"github.com/weberc2/simplefs/pkg/snapshot"
	. "github.com/weberc2/simplefs/pkg/types"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errs.GetCode(err) == errs.CodeInvalidConfig {
		return 2
	}
	return 1
}

func app() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "a tiny inode file system on a simulated block device",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "image",
				Usage: "path to the disk image file",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "disk backend: image, goose or memory",
			},
			&cli.UintFlag{
				Name:  "blocks",
				Usage: "number of blocks on the disk",
			},
			&cli.Int64Flag{
				Name:  "block-size",
				Usage: "bytes per block",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "logrus level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{{
			Name:  "format",
			Usage: "write an empty file system to the disk",
			Action: withFileSystem(false, func(env *Env, ctx *cli.Context) error {
				if err := env.FS.Format(); err != nil {
					return fmt.Errorf("format failed: %w", err)
				}
				fmt.Println("disk formatted.")
				return nil
			}),
		}, {
			Name:  "debug",
			Usage: "print the superblock and every valid inode",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
			},
			Action: withFileSystem(false, func(env *Env, ctx *cli.Context) error {
				report, err := env.FS.Debug()
				if err != nil {
					return err
				}
				if ctx.Bool("json") {
					data, err := json.MarshalIndent(report, "", "  ")
					if err != nil {
						return fmt.Errorf("marshaling report to JSON: %w", err)
					}
					if _, err := fmt.Printf("%s\n", data); err != nil {
						return fmt.Errorf("writing JSON to stdout: %w", err)
					}
					return nil
				}
				_, err = report.WriteTo(os.Stdout)
				return err
			}),
		}, {
			Name:  "create",
			Usage: "create an empty file and print its inode number",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := env.Volume.Create()
				if err != nil {
					return fmt.Errorf("create failed: %w", err)
				}
				fmt.Printf("created inode %d\n", ino)
				return nil
			}),
		}, {
			Name:      "delete",
			Usage:     "delete a file",
			ArgsUsage: "<inode>",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := inoArg(ctx, 0)
				if err != nil {
					return err
				}
				if err := env.Volume.Delete(ino); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				fmt.Printf("inode %d deleted.\n", ino)
				return nil
			}),
		}, {
			Name:      "getsize",
			Usage:     "print a file's size in bytes",
			ArgsUsage: "<inode>",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := inoArg(ctx, 0)
				if err != nil {
					return err
				}
				size, err := env.Volume.Size(ino)
				if err != nil {
					return fmt.Errorf("getsize failed: %w", err)
				}
				if size < 0 {
					return fmt.Errorf(
						"getsize failed: inode `%d`: %w",
						ino,
						InvalidInodeErr,
					)
				}
				fmt.Printf("inode %d has size %d\n", ino, size)
				return nil
			}),
		}, {
			Name:      "cat",
			Usage:     "write a file's contents to stdout",
			ArgsUsage: "<inode>",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := inoArg(ctx, 0)
				if err != nil {
					return err
				}
				_, err = shell.CopyOut(env.Volume, ino, os.Stdout)
				return err
			}),
		}, {
			Name:      "copyin",
			Usage:     "copy a host file into a file",
			ArgsUsage: "<file> <inode>",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := inoArg(ctx, 1)
				if err != nil {
					return err
				}
				file, err := env.Host.Open(ctx.Args().Get(0))
				if err != nil {
					return fmt.Errorf("copyin failed: %w", err)
				}
				defer file.Close()
				n, err := shell.CopyIn(env.Volume, ino, file)
				if err != nil {
					return fmt.Errorf("copyin failed: %w", err)
				}
				fmt.Printf("%d bytes copied\n", n)
				return nil
			}),
		}, {
			Name:      "copyout",
			Usage:     "copy a file out to the host",
			ArgsUsage: "<inode> <file>",
			Action: withFileSystem(true, func(env *Env, ctx *cli.Context) error {
				ino, err := inoArg(ctx, 0)
				if err != nil {
					return err
				}
				file, err := env.Host.Create(ctx.Args().Get(1))
				if err != nil {
					return fmt.Errorf("copyout failed: %w", err)
				}
				n, err := shell.CopyOut(env.Volume, ino, file)
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					return fmt.Errorf("copyout failed: %w", err)
				}
				fmt.Printf("%d bytes copied\n", n)
				return nil
			}),
		}, {
			Name:  "shell",
			Usage: "run the interactive shell",
			Action: withFileSystem(false, func(env *Env, ctx *cli.Context) error {
				return shell.NewSession(
					env.FS,
					env.Host,
					os.Stdout,
					env.Logger,
				).Run(os.Stdin)
			}),
		}, {
			Name:  "image",
			Usage: "push and pull disk image snapshots",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "bucket", Usage: "snapshot bucket"},
				&cli.StringFlag{Name: "region", Usage: "AWS region"},
				&cli.StringFlag{
					Name:  "endpoint",
					Usage: "S3 endpoint override (e.g. a local minio)",
				},
			},
			Subcommands: []*cli.Command{{
				Name:  "push",
				Usage: "upload the disk image and print its key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "snapshot name; defaults to the image file name",
					},
				},
				Action: withSnapshots(func(
					c *Config,
					snapshots *snapshot.Snapshots,
					ctx *cli.Context,
				) error {
					name := ctx.String("name")
					if name == "" {
						name = filepath.Base(c.Image)
					}
					file, err := os.Open(c.Image)
					if err != nil {
						return fmt.Errorf("opening disk image: %w", err)
					}
					defer file.Close()
					key, err := snapshots.Push(name, file)
					if err != nil {
						return err
					}
					fmt.Println(key)
					return nil
				}),
			}, {
				Name:      "pull",
				Usage:     "download a snapshot over the disk image",
				ArgsUsage: "<key>",
				Action: withSnapshots(func(
					c *Config,
					snapshots *snapshot.Snapshots,
					ctx *cli.Context,
				) error {
					if ctx.NArg() != 1 {
						return errs.New(errs.CodeInvalidInput, "missing <key>")
					}
					file, err := os.Create(c.Image)
					if err != nil {
						return fmt.Errorf("creating disk image: %w", err)
					}
					n, err := snapshots.Pull(ctx.Args().First(), file)
					if closeErr := file.Close(); err == nil {
						err = closeErr
					}
					if err != nil {
						return err
					}
					fmt.Printf("%d bytes copied\n", n)
					return nil
				}),
			}, {
				Name:      "delete",
				Usage:     "delete a snapshot",
				ArgsUsage: "<key>",
				Action: withSnapshots(func(
					c *Config,
					snapshots *snapshot.Snapshots,
					ctx *cli.Context,
				) error {
					if ctx.NArg() != 1 {
						return errs.New(errs.CodeInvalidInput, "missing <key>")
					}
					return snapshots.Delete(ctx.Args().First())
				}),
			}, {
				Name:      "list",
				Usage:     "list the snapshots pushed under a name",
				ArgsUsage: "[name]",
				Action: withSnapshots(func(
					c *Config,
					snapshots *snapshot.Snapshots,
					ctx *cli.Context,
				) error {
					name := ctx.Args().First()
					if name == "" {
						name = filepath.Base(c.Image)
					}
					keys, err := snapshots.List(name)
					if err != nil {
						return err
					}
					for _, key := range keys {
						fmt.Println(key)
					}
					return nil
				}),
			}},
		}},
	}
}

func inoArg(ctx *cli.Context, i int) (Ino, error) {
	arg := ctx.Args().Get(i)
	ino, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return InoNil, errs.Wrapf(
			err,
			errs.CodeInvalidInput,
			"parsing inode number `%s`",
			arg,
		)
	}
	return Ino(ino), nil
}

func withSnapshots(
	f func(*Config, *snapshot.Snapshots, *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if ctx.IsSet("bucket") {
			c.Bucket = ctx.String("bucket")
		}
		if ctx.IsSet("region") {
			c.Region = ctx.String("region")
		}
		if ctx.IsSet("endpoint") {
			c.Endpoint = ctx.String("endpoint")
		}
		if c.Bucket == "" {
			return errs.Newf(
				errs.CodeInvalidConfig,
				"missing required configuration: bucket / %s_BUCKET",
				envVarPrefix,
			)
		}
		store, err := objectstore.NewS3ObjectStore(c.Region, c.Endpoint)
		if err != nil {
			return errs.Wrap(err, errs.CodeNetwork, "creating S3 client")
		}
		return f(c, snapshot.New(store, c.Bucket), ctx)
	}
}
