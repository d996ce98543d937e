package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner for the interactive servers.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(`                          _             `).Foreground(p.Color("#818cf8"))
	s2 := termenv.String(` _ __ ___   __ _  ___ ___| |_ _ __ ___  `).Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("| '_ ` _ \\ / _` |/ _ / __| __| '__/ _ \\ ").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(`| | | | | | (_| |  __\__ \ |_| | | (_) |`).Foreground(p.Color("#e879f9"))
	s5 := termenv.String(`|_| |_| |_|\__,_|\___|___/\__|_|  \___/ `).Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
