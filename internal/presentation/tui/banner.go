package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Itinera.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Warm sunset gradient.
	s1 := termenv.String("  _____ _   _                       ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(" |_   _| |_(_)_ __   ___ _ __ __ _  ").Foreground(p.Color("#fb923c"))
	s3 := termenv.String("   | | | __| | '_ \\ / _ \\ '__/ _` | ").Foreground(p.Color("#f97316"))
	s4 := termenv.String("   | | | |_| | | | |  __/ | | (_| | ").Foreground(p.Color("#f87171"))
	s5 := termenv.String("  |___| \\__|_|_| |_|\\___|_|  \\__,_| ").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
