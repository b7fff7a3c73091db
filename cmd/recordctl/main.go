// recordctl is a command-line client for the record stores. It reads the
// same configuration as records-api and operates on the same files.
//
//	recordctl product add --title "Producto 1" --description d --price 10.99 \
//	    --thumbnail i.jpg --code P001 --stock 50
//	recordctl product list --limit 5
//	recordctl student add-course 1 math
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aanand-mishra/records-api/internal/store"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	root, c := newRootCmd()
	root.SetArgs(args)
	if err := c.execute(ctx, root); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode separates caller mistakes from storage trouble.
func exitCode(err error) int {
	if errors.Is(err, store.ErrStorage) {
		return exitSysError
	}
	return exitUserError
}
