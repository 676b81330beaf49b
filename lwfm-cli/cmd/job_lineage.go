package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func jobLineage(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"job lineage requires one argument-- a job ID",
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

	lineage, err := client.Statuses().GetLineage(c.Context, jobID)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "PARENT", "ORIGIN", "SITE", "NAME")
		for _, jobContext := range lineage.Items {
			table.AddRow(
				jobContext.ID,
				jobContext.ParentJobID,
				jobContext.OriginJobID,
				jobContext.SiteName,
				jobContext.Name,
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(lineage)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get lineage operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(lineage, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get lineage operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
