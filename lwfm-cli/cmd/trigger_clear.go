package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func triggerClear(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("trigger clear requires no arguments")
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	result, err := client.Triggers().UnregisterAll(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Unregistered %d trigger(s).\n", result.Count)

	return nil
}
