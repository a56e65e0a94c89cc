package testutil

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/quickpoll/backend/src/utils"
)

// GetEnv reads key after loading the project .env file if one exists.
func GetEnv(key string) string {
	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))
	return os.Getenv(key)
}
