package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hitoshi/booky/internal/app"
	"github.com/hitoshi/booky/internal/model"
)

func main() {
	if err := app.Run(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "エラー: %s\n", apiErr.Message)
			if apiErr.Action != "" {
				fmt.Fprintf(os.Stderr, "%s\n", apiErr.Action)
			}
		} else {
			fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		}
		os.Exit(1)
	}
}
