// Package cli implements the fbdash command-line interface.
//
// Each Cobra command parses its flags and hands off to a *Command function
// that loads the config and wires the internal packages together:
//
//	fbdash run          - draw the dashboard on the framebuffer until stopped
//	fbdash snapshot     - sample once and write a PNG of the frame
//	fbdash preview      - draw the dashboard in the terminal
//	fbdash status       - print current metrics with short trends
//	fbdash backlight    - switch the display backlight
//	fbdash init         - create .fbdash.yaml
//	fbdash version      - print build information
//
// Commands return *errors.Error values; Execute prints them once.
package cli
