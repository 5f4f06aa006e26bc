// otcdb builds the OTC drug dataset served by the harmonizer API.
// It fetches raw label data from openFDA and converts it into the
// structured record file the catalog loader consumes.
package main

import (
	"os"

	"github.com/ryoungl/health-information-harmonizer/cmd/otcdb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
