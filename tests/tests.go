package tests

import (
	"github.com/joho/godotenv"
)

// Local environment overrides, ignored when absent
var _ = godotenv.Load("../.env")
