// Command discogo-create builds an index from a text file of whitespace
// separated key/value pairs (or keys only) and writes it to a file or blob
// store.
//
//	discogo-create fruits.ddb fruits.txt
//	KEYS_ONLY=1 discogo-create keys.ddb keys.txt
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
