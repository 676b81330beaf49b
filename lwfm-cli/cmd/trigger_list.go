package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func triggerList(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New(
			"trigger list requires no arguments",
		)
	}

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	triggerList, err := client.Triggers().List(c.Context)
	if err != nil {
		return err
	}

	if len(triggerList.Items) == 0 {
		fmt.Println("No triggers found.")
		return nil
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow(
			"HANDLER ID",
			"SOURCE JOB",
			"AWAITED",
			"TARGET SITE",
			"ENTRY POINT",
			"AGE",
		)
		for _, trigger := range triggerList.Items {
			var age string
			if trigger.Created != nil {
				age = time.Since(*trigger.Created).Round(time.Second).String()
			}
			table.AddRow(
				trigger.HandlerID,
				trigger.SourceJobID,
				trigger.AwaitedStatus,
				trigger.TargetSiteName,
				trigger.FireDefn.EntryPointPath,
				age,
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(triggerList)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list triggers operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(triggerList, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list triggers operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
