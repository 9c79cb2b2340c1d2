package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
)

// ANSI 256 colors shared by every command.
var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("71")
	colorWarn   = lipgloss.Color("214")
	colorFail   = lipgloss.Color("203")
	colorLink   = lipgloss.Color("110")
	colorText   = lipgloss.Color("254")
	colorMuted  = lipgloss.Color("246")
	colorFaint  = lipgloss.Color("241")
)

var (
	// StyleTitle is used for map names and section headings.
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks a value inside a sentence.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)

	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

const iconArrow = "→"

// stdout receives status lines. Commands that print data write to
// cmd.OutOrStdout() instead.
var stdout io.Writer = os.Stdout

type marker struct {
	icon  string
	style lipgloss.Style
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = marker{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = marker{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markNote = marker{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m marker) print(msg string) {
	fmt.Fprintln(stdout, m.style.Render(m.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { markOK.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { markFail.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { markNote.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarn.print(markWarn.style.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a render: "3 elements · 1 hidden · cached".
func printStats(drawn, filtered int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d elements", drawn))}
	if filtered > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d hidden", filtered)))
	}
	if cached {
		parts = append(parts, markOK.style.Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorMuted).Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// swatch renders a block of the given color followed by its name.
func swatch(name string) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(palette.Hex(name))).Render("    ")
	return block + " " + StyleValue.Render(name)
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
