package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func login(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"login requires one argument-- the address of the sentinel API " +
				"server",
		)
	}
	address := c.Args().Get(0)

	// Command-specific flags
	token := c.String(flagToken)

	var err error
	reader := bufio.NewReader(os.Stdin)
	for {
		token = strings.TrimSpace(token)
		if token != "" {
			break
		}
		fmt.Print("API token? ")
		if token, err = reader.ReadString('\n'); err != nil {
			return errors.Wrap(err, "error reading token from stdin")
		}
	}

	client := lwfm.NewClient(
		address,
		token,
		c.Bool(flagInsecure),
	)

	// Prove the address and token are good before persisting them
	if _, err = client.Statuses().ListLatest(c.Context); err != nil {
		return errors.Wrap(err, "error verifying credentials")
	}

	if err := saveConfig(
		&config{
			APIAddress: address,
			APIToken:   token,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	fmt.Println("Login was successful.")

	return nil
}
