package data

import _ "embed"

//go:embed airlines.json
var Airlines []byte

//go:embed aircraft.json
var Aircraft []byte

//go:embed airports.json
var Airports []byte
