package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/gr80mcbr/lwfm/internal/file"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

type config struct {
	APIAddress string `json:"apiAddress"`
	APIToken   string `json:"apiToken"`
}

func getConfig() (*config, error) {
	lwfmHome, err := getLwfmHome()
	if err != nil {
		return nil, errors.Wrapf(err, "error finding lwfm home")
	}
	lwfmConfigFile := path.Join(lwfmHome, "config")
	if !file.Exists(lwfmConfigFile) {
		return nil, errors.Errorf(
			"no lwfm configuration was found at %s; please use "+
				"`lwfm login` to continue\n",
			lwfmConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(lwfmConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading lwfm config file at %s",
			lwfmConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing lwfm config file at %s",
			lwfmConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	lwfmHome, err := getLwfmHome()
	if err != nil {
		return errors.Wrapf(err, "error finding lwfm home")
	}
	if _, err := os.Stat(lwfmHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of lwfm home at %s",
				lwfmHome,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(lwfmHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating lwfm home at %s",
				lwfmHome,
			)
		}
	}
	lwfmConfigFile := path.Join(lwfmHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(lwfmConfigFile, configBytes, 0644); err != nil {
		return errors.Wrapf(err, "error writing to %s", lwfmConfigFile)
	}
	return nil
}

func deleteConfig() error {
	lwfmHome, err := getLwfmHome()
	if err != nil {
		return errors.Wrapf(err, "error finding lwfm home")
	}
	lwfmConfigFile := path.Join(lwfmHome, "config")

	if err := os.Remove(lwfmConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getLwfmHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".lwfm"), nil
}
