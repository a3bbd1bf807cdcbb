package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/torus/core/tfhe"
)

// loadParameters reads and validates a parameter file.
// Files with a .json extension are read as JSON, all the others as YAML.
func loadParameters(path string) (params tfhe.Parameters, err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("cannot read parameter file: %w", err)
	}

	var literal tfhe.ParametersLiteral

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &literal)
	default:
		err = yaml.Unmarshal(data, &literal)
	}

	if err != nil {
		return params, fmt.Errorf("cannot parse parameter file %s: %w", path, err)
	}

	if params, err = tfhe.NewParametersFromLiteral(literal); err != nil {
		return params, fmt.Errorf("invalid parameter file %s: %w", path, err)
	}

	return
}
