// Package ui holds the color palettes shared by the text reporter and the
// dashboard. Palettes are chosen once at startup; NO_COLOR disables them.
package ui
