package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gr80mcbr/lwfm/internal/signals"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "lwfm"
	app.Usage = "Chain HPC workflows with the lwfm Job Status Sentinel"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "job",
			Usage: "Manage jobs and their statuses",
			Subcommands: []*cli.Command{
				{
					Name:      "emit",
					Usage:     "Report a status observation for a job",
					ArgsUsage: "JOB_ID NATIVE_STATUS",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagSite,
							Aliases: []string{"s"},
							Usage:   "The site the job runs on",
						},
						&cli.StringFlag{
							Name:  flagNativeID,
							Usage: "The site-assigned job ID",
						},
						&cli.StringFlag{
							Name:  flagParent,
							Usage: "The ID of the job's immediate predecessor",
						},
						&cli.StringFlag{
							Name:  flagOrigin,
							Usage: "The ID of the job's oldest ancestor",
						},
						&cli.StringFlag{
							Name:    flagName,
							Aliases: []string{"n"},
							Usage:   "A human-readable label for the job",
						},
						&cli.StringFlag{
							Name: flagInfo,
							Usage: "Free-form site detail to attach to the " +
								"observation",
						},
						&cli.StringFlag{
							Name:    flagMap,
							Aliases: []string{"m"},
							Usage: "The site's native-to-canonical status map " +
								"as inline JSON",
						},
						&cli.StringFlag{
							Name: flagMapFile,
							Usage: "The location of a file containing the " +
								"site's native-to-canonical status map",
						},
					},
					Action: jobEmit,
				},
				{
					Name:      "status",
					Usage:     "Get the most recent status of a job",
					ArgsUsage: "JOB_ID",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: jobStatus,
				},
				{
					Name:      "history",
					Usage:     "Get every status observed for a job, oldest first",
					ArgsUsage: "JOB_ID",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: jobHistory,
				},
				{
					Name:      "lineage",
					Usage:     "Get the chain of jobs that led to a job",
					ArgsUsage: "JOB_ID",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: jobLineage,
				},
				{
					Name:  "list",
					Usage: "List the most recent status of every job",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: jobList,
				},
				{
					Name:      "wait",
					Usage:     "Block until a job reaches a terminal status",
					ArgsUsage: "JOB_ID",
					Flags: []cli.Flag{
						&cli.DurationFlag{
							Name:    flagInterval,
							Aliases: []string{"i"},
							Usage:   "Time to wait between polls",
							Value:   5 * time.Second,
						},
					},
					Action: jobWait,
				},
				{
					Name:      "watch",
					Usage:     "Ask the sentinel to track a job",
					ArgsUsage: "JOB_ID",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagSite,
							Aliases: []string{"s"},
							Usage:   "The site the job runs on",
						},
						&cli.StringFlag{
							Name:  flagNativeID,
							Usage: "The site-assigned job ID",
						},
						&cli.StringFlag{
							Name:  flagParent,
							Usage: "The ID of the job's immediate predecessor",
						},
						&cli.StringFlag{
							Name:  flagOrigin,
							Usage: "The ID of the job's oldest ancestor",
						},
					},
					Action: jobWatch,
				},
			},
		},
		{
			Name:      "login",
			Usage:     "Log in to an lwfm Job Status Sentinel",
			ArgsUsage: "API_SERVER_ADDRESS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagToken,
					Aliases: []string{"t"},
					Usage: "Specify the API token non-interactively instead " +
						"of being prompted for it",
				},
			},
			Action: login,
		},
		{
			Name:   "logout",
			Usage:  "Log out of an lwfm Job Status Sentinel",
			Action: logout,
		},
		{
			Name:  "trigger",
			Usage: "Manage triggers",
			Subcommands: []*cli.Command{
				{
					Name: "register",
					Usage: "Register a trigger that submits new work when a " +
						"job reaches an awaited status",
					ArgsUsage: "SOURCE_JOB_ID AWAITED_STATUS ENTRY_POINT_PATH",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:     flagTargetSite,
							Aliases:  []string{"t"},
							Usage:    "The site the fired job is submitted to",
							Required: true,
						},
						&cli.StringFlag{
							Name:  flagSourceSite,
							Usage: "The site the source job runs on",
						},
						&cli.StringFlag{
							Name:  flagComputeType,
							Usage: "The resource class the fired job runs on",
						},
						&cli.StringFlag{
							Name:    flagName,
							Aliases: []string{"n"},
							Usage:   "A human-readable label for the fired job",
						},
						&cli.StringSliceFlag{
							Name:    flagArg,
							Aliases: []string{"a"},
							Usage: "A positional argument passed to the entry " +
								"point (may be repeated)",
						},
						&cli.StringFlag{
							Name: flagEmail,
							Usage: "An address the site notifies when the " +
								"fired job reaches a terminal state",
						},
					},
					Action: triggerRegister,
				},
				{
					Name:      "unregister",
					Usage:     "Unregister a trigger",
					ArgsUsage: "HANDLER_ID",
					Action:    triggerUnregister,
				},
				{
					Name:   "clear",
					Usage:  "Unregister all triggers",
					Action: triggerClear,
				},
				{
					Name:  "list",
					Usage: "List registered triggers",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: triggerList,
				},
			},
		},
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
