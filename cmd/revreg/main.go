// Command revreg inspects and validates revocation registry documents.
package main

import (
	"os"

	"github.com/ajna-inc/revreg/pkg/core/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.GetDefaultLogger().WithError(err).Error("revreg failed")
		os.Exit(1)
	}
}
