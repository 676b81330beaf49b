package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/ghodss/yaml"
	"github.com/gr80mcbr/lwfm"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func jobEmit(c *cli.Context) error {
	// Args
	if c.Args().Len() != 2 {
		return errors.New(
			"job emit requires two arguments-- a job ID and a native status " +
				"string",
		)
	}
	jobID := c.Args().Get(0)
	nativeStatus := c.Args().Get(1)

	// Command-specific flags
	siteName := c.String(flagSite)
	nativeID := c.String(flagNativeID)
	parentJobID := c.String(flagParent)
	originJobID := c.String(flagOrigin)
	name := c.String(flagName)
	nativeInfo := c.String(flagInfo)
	mapJSON := c.String(flagMap)
	mapFile := c.String(flagMapFile)

	if mapJSON != "" && mapFile != "" {
		return errors.New("only one of --map or --map-file may be used")
	}
	var statusMap lwfm.StatusMap
	if mapJSON != "" {
		if err := json.Unmarshal([]byte(mapJSON), &statusMap); err != nil {
			return errors.Wrap(err, "error parsing status map")
		}
	} else if mapFile != "" {
		mapBytes, err := ioutil.ReadFile(mapFile)
		if err != nil {
			return errors.Wrapf(
				err,
				"error reading status map file %s",
				mapFile,
			)
		}
		if err := yaml.Unmarshal(mapBytes, &statusMap); err != nil {
			return errors.Wrapf(
				err,
				"error parsing status map file %s",
				mapFile,
			)
		}
	}

	status := lwfm.NewJobStatus(
		lwfm.JobContext{
			ID:          jobID,
			NativeID:    nativeID,
			ParentJobID: parentJobID,
			OriginJobID: originJobID,
			Name:        name,
			SiteName:    siteName,
		},
		nativeStatus,
		statusMap,
	)
	status.NativeInfo = nativeInfo

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting lwfm client")
	}

	ack, err := client.Statuses().Emit(c.Context, jobID, status)
	if err != nil {
		return err
	}

	fmt.Printf("Emitted %q for job %q.\n", nativeStatus, jobID)
	for _, warning := range ack.Warnings {
		fmt.Printf("WARNING: %s\n", warning)
	}

	return nil
}
