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

func jobHistory(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"job history requires one argument-- a job ID",
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

	statusList, err := client.Statuses().GetHistory(c.Context, jobID)
	if err != nil {
		return err
	}

	if len(statusList.Items) == 0 {
		fmt.Println("No statuses found.")
		return nil
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("STATUS", "NATIVE STATUS", "SITE", "AGE", "INFO")
		for _, status := range statusList.Items {
			table.AddRow(
				status.Status,
				status.NativeStatus,
				status.JobContext.SiteName,
				time.Since(status.EmitTime).Round(time.Second),
				status.NativeInfo,
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(statusList)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get history operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(statusList, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get history operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
