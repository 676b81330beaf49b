package main

import "github.com/urfave/cli/v2"

const (
	flagArg         = "arg"
	flagComputeType = "compute-type"
	flagEmail       = "email"
	flagInfo        = "info"
	flagInsecure    = "insecure"
	flagInterval    = "interval"
	flagMap         = "map"
	flagMapFile     = "map-file"
	flagName        = "name"
	flagNativeID    = "native-id"
	flagOrigin      = "origin"
	flagOutput      = "output"
	flagParent      = "parent"
	flagSite        = "site"
	flagSourceSite  = "source-site"
	flagTargetSite  = "target-site"
	flagToken       = "token"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in another format. Supported formats: table, " +
			"json, yaml",
		Value: "table",
	}
)
