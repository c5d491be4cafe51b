package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nissyi-gh/tally/internal/command"
)

const maxPlainLine = 1 << 20

const divider = "____________________________________________________________"

// RunPlain reads commands line by line from in until "bye" or EOF, writing
// each response to out. Used when stdin is not a terminal.
func RunPlain(in io.Reader, out io.Writer, interp *command.Interpreter) error {
	fmt.Fprintln(out, "Hello! What can I do for you? Type \"help\" for the commands.")
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxPlainLine)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		resp := interp.Execute(line)
		fmt.Fprintf(out, "%s\n%s\n%s\n", divider, resp.Text, divider)
		if resp.Exit {
			return nil
		}
	}
	return scanner.Err()
}
