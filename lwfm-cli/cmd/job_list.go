package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func jobList(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New(
			"job list requires no arguments",
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

	summaryMap, err := client.Statuses().ListLatest(c.Context)
	if err != nil {
		return err
	}

	if len(summaryMap.Items) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	switch strings.ToLower(output) {
	case "table":
		jobIDs := make([]string, 0, len(summaryMap.Items))
		for jobID := range summaryMap.Items {
			jobIDs = append(jobIDs, jobID)
		}
		sort.Strings(jobIDs)
		table := uitable.New()
		table.AddRow("ID", "STATUS", "SITE", "NATIVE ID", "AGE")
		for _, jobID := range jobIDs {
			summary := summaryMap.Items[jobID]
			table.AddRow(
				summary.JobID,
				summary.Status,
				summary.SiteName,
				summary.NativeJobID,
				time.Since(summary.EmitTime).Round(time.Second),
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(summaryMap)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list jobs operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(summaryMap, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list jobs operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
