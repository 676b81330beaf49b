package main

import (
	"fmt"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func jobWatch(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"job watch requires one argument-- a job ID",
		)
	}
	jobID := c.Args().Get(0)

	// Command-specific flags
	siteName := c.String(flagSite)
	nativeID := c.String(flagNativeID)
	parentJobID := c.String(flagParent)
	originJobID := c.String(flagOrigin)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	if _, err := client.Statuses().Watch(
		c.Context,
		lwfm.NewWatch(jobID, parentJobID, originJobID, nativeID, siteName),
	); err != nil {
		return err
	}

	fmt.Printf("The sentinel is now tracking job %q.\n", jobID)

	return nil
}
