package data

import (
	_ "embed"
)

// ConfigExample is the template app-token table used by cmd/apptokens.
//
//go:embed config.example.json
var ConfigExample []byte
