package cmd

import (
	"fmt"
	"os"
)

// confirmIfExists checks that a file exists, and ask the user confirmation to
// do go forward.
//
// It returns true if the file doesn't exist, or if the user answered yes to the
// confirmation msg showed on command line. If ok is false or err is not nil,
// the operation on path should be aborted.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// file does not exist
			return true, nil
		} else {
			// other error
			fmt.Println("other error", err)
			return false, err
		}
	}
	return askForConfirmation(msg), nil
}
