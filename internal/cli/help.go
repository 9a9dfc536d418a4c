package cli

import (
	"fmt"
	"io"
)

func Help(program string, stdout io.Writer) {
	Version(stdout)
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] FileName1 [Filename2...]\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Options:")
	fmt.Fprintln(stdout, "--Help, -h")
	fmt.Fprintln(stdout, "                    Display this help and exit")
	fmt.Fprintln(stdout, "--Version")
	fmt.Fprintln(stdout, "                    Display version information and exit")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "--Output=TEXT|JSON")
	fmt.Fprintln(stdout, "                    Select output format")
	fmt.Fprintln(stdout, "--Init=FILE")
	fmt.Fprintln(stdout, "                    WebM init segment, required alongside --Cues")
	fmt.Fprintln(stdout, "--Cues=FILE")
	fmt.Fprintln(stdout, "                    WebM Cues data; builds the segment index")
	fmt.Fprintln(stdout, "--Pro=BASE64")
	fmt.Fprintln(stdout, "                    Decode a base64 PlayReady Object")
	fmt.Fprintln(stdout, "--LogFile=...")
	fmt.Fprintln(stdout, "                    Save the output in the specified file")
	fmt.Fprintln(stdout, "--BOM")
	fmt.Fprintln(stdout, "                    Byte order mark for UTF-8 output (Windows only)")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "completion           Generate the autocompletion script for the specified shell")
	fmt.Fprintln(stdout, "help                 Help about any command")
	fmt.Fprintln(stdout, "version              Print go-streaminfo version information")
	fmt.Fprintln(stdout, "update               Update streaminfo to latest version (release builds only)")
}

func HelpNothing(program string, stdout io.Writer) {
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] FileName1 [Filename2...]\"\n", program)
	fmt.Fprintf(stdout, "\"%s --help\" for displaying more information\n", program)
}

func HelpOutput(program string, stdout io.Writer) {
	fmt.Fprintln(stdout, "--Output=...  Select an output format")
	fmt.Fprintf(stdout, "Usage: \"%s --Output=JSON FileName\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Supported formats:")
	fmt.Fprintln(stdout, "TEXT, JSON")
}

func Usage(program string, stdout io.Writer) int {
	HelpNothing(program, stdout)
	return exitError
}
