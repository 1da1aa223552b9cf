package console

import (
	"errors"
	"fmt"
	"os"
)

// Console is the interactive terminal a picker runs on: keys decoded from the
// controlling terminal and frames written to an output stream.
type Console struct {
	*Decoder
	*Terminal
	restoreInput  func() error
	restoreOutput func() error
}

// Open switches the controlling terminal into raw keyed input and prepares
// out for ANSI output. Close must be called to restore both.
func Open(out *os.File) (*Console, error) {
	src, restoreInput, err := openInput()
	if err != nil {
		return nil, fmt.Errorf("open console input: %w", err)
	}
	restoreOutput, err := prepareOutput(out)
	if err != nil {
		_ = restoreInput()
		return nil, fmt.Errorf("prepare console output: %w", err)
	}
	return &Console{
		Decoder:       NewDecoder(src),
		Terminal:      NewTerminal(out),
		restoreInput:  restoreInput,
		restoreOutput: restoreOutput,
	}, nil
}

// Close flushes pending output and restores the terminal modes changed by Open.
func (c *Console) Close() error {
	return errors.Join(c.Flush(), c.restoreOutput(), c.restoreInput())
}
