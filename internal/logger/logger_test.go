package logger

import (
	"fmt"
	"testing"
)

func TestLogger(t *testing.T) {
	// skip in ci checks
	if true {
		t.Skip()
	}

	Info("starting run")
	Info("resolved %d securities", 4)
	Error(fmt.Errorf("missing price"))

	t.Fail()
}
