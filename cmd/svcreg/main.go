// Command svcreg builds a service registry from a config file and lets you
// inspect it.
//
//	svcreg --config ./config.yml keys
//	svcreg --config ./config.yml get db.host
//	svcreg --config ./config.yml tagged infra
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newApp().execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "svcreg: %v\n", err)
		os.Exit(1)
	}
}
