package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func triggerUnregister(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"trigger unregister requires one argument-- a handler ID",
		)
	}
	handlerID := c.Args().Get(0)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	result, err := client.Triggers().Unregister(c.Context, handlerID)
	if err != nil {
		return err
	}

	if result.Removed {
		fmt.Printf("Unregistered trigger %q.\n", handlerID)
	} else {
		fmt.Printf("No trigger with handler ID %q was registered.\n", handlerID)
	}

	return nil
}
