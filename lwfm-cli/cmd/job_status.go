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

func jobStatus(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"job status requires one argument-- a job ID",
		)
	}
	jobID := c.Args().Get(0)

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	status, err := client.Statuses().GetLatest(c.Context, jobID)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "STATUS", "NATIVE STATUS", "SITE", "AGE")
		table.AddRow(
			status.JobContext.ID,
			status.Status,
			status.NativeStatus,
			status.JobContext.SiteName,
			time.Since(status.EmitTime).Round(time.Second),
		)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(status)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get status operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get status operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
