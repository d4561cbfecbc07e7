package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultConfigFile is read when no configuration path is given.
const DefaultConfigFile = "sitepub.json"

var Config = DefaultConfiguration()

func DefaultConfiguration() *Configuration {
	return &Configuration{
		SrcDir:        ".",
		PublishDir:    "docs",
		AssetsDir:     "assets",
		ToolDir:       "deployment",
		MarkerFile:    "CNAME",
		MarkerContent: "todoran.dev",
		InlineMaxSize: 0, // url() references in css stay references
		ServeConfig: ServeConfiguration{
			Redirect404: "",
			Port:        8000,
		},
	}
}

type Configuration struct {
	SrcDir        string             `json:"source_directory,omitempty"`
	PublishDir    string             `json:"publish_directory,omitempty"`
	AssetsDir     string             `json:"assets_directory,omitempty"`
	ToolDir       string             `json:"tool_directory,omitempty"`
	MarkerFile    string             `json:"marker_file,omitempty"`
	MarkerContent string             `json:"marker_content,omitempty"`
	InlineMaxSize int64              `json:"inline_max_size,omitempty"`
	ServeConfig   ServeConfiguration `json:"serve_config,omitempty"`
}

type ServeConfiguration struct {
	Redirect404 string `json:"redirect_404"`
	Port        int    `json:"port"`
}

// Init overlays the configuration file at configpath on top of the defaults.
// A missing file leaves the defaults in place.
func Init(configpath string) error {
	if configpath == "" {
		configpath = DefaultConfigFile
	}

	_, err := os.Stat(configpath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not access configuration file %s: %v", configpath, err)
		}

		return nil
	}

	f, err := os.Open(configpath)
	if err != nil {
		return err
	}
	defer f.Close()

	conf := DefaultConfiguration()
	err = json.NewDecoder(f).Decode(conf)
	if err != nil {
		return fmt.Errorf("could not decode configuration file %s: %v", configpath, err)
	}

	Config = conf
	return nil
}
