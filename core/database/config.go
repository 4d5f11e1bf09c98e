package database

import coreconfig "github.com/m3rciful/dezbot/core/config"

// Config holds database connection settings.
type Config = coreconfig.DatabaseConfig
