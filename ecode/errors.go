package ecode

import (
	"fmt"
)

const notFoundMsg = "not found"

// NotFoundMsg returns not found message, e.g. "Task not found"
func NotFoundMsg(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], notFoundMsg)
	}
	return notFoundMsg
}
