package assets

import (
	"embed"
)

//go:embed static/*
var Static embed.FS

//go:embed robots.txt
var RobotsTxt string
