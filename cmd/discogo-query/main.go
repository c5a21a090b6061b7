// Command discogo-query reads an index and prints keys, values, index
// features, the values of a key, or the result of a CNF query.
//
//	discogo-query fruits.ddb keys
//	discogo-query fruits.ddb item red
//	VIEW=allowed.txt discogo-query fruits.ddb cnf red yellow '&' ~sour
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
