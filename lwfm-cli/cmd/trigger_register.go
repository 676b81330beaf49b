package main

import (
	"fmt"
	"strings"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func triggerRegister(c *cli.Context) error {
	// Args
	if c.Args().Len() != 3 {
		return errors.New(
			"trigger register requires three arguments-- a source job ID, an " +
				"awaited canonical status, and an entry point path",
		)
	}
	sourceJobID := c.Args().Get(0)
	awaitedStatus := lwfm.CanonicalStatus(
		strings.ToUpper(c.Args().Get(1)),
	)
	entryPointPath := c.Args().Get(2)

	// Command-specific flags
	targetSiteName := c.String(flagTargetSite)
	sourceSiteName := c.String(flagSourceSite)
	computeType := c.String(flagComputeType)
	name := c.String(flagName)
	args := c.StringSlice(flagArg)
	notificationEmail := c.String(flagEmail)

	trigger := lwfm.NewTrigger(
		sourceJobID,
		sourceSiteName,
		awaitedStatus,
		lwfm.JobDefn{
			Name:              name,
			ComputeType:       computeType,
			EntryPointPath:    entryPointPath,
			NotificationEmail: notificationEmail,
			Args:              args,
		},
		targetSiteName,
	)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	triggerRef, err := client.Triggers().Register(c.Context, trigger)
	if err != nil {
		return err
	}

	fmt.Printf(
		"Registered trigger %q: when job %q reaches %s, submit %q to site "+
			"%q.\n",
		triggerRef.HandlerID,
		sourceJobID,
		awaitedStatus,
		entryPointPath,
		targetSiteName,
	)

	return nil
}
