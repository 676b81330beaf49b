package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func jobWait(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"job wait requires one argument-- a job ID",
		)
	}
	jobID := c.Args().Get(0)

	// Command-specific flags
	interval := c.Duration(flagInterval)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	fmt.Printf("Waiting for job %q to reach a terminal status...\n", jobID)

	status, err := client.Statuses().WaitForTerminal(c.Context, jobID, interval)
	if err != nil {
		return err
	}

	fmt.Printf("Job %q reached %s.\n", jobID, status.Status)

	return nil
}
